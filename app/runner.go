package app

//Headless viewer loop. Advances a ChannelFlow one update per frame, hands
//the host side position and colour buffers to a FrameFunc and takes the
//pause / step / reset commands a window would send from its key callback.
import (
	"context"
	"errors"
	"time"

	F "github.com/hoopoe/cmag/fluid"
	G "github.com/hoopoe/cmag/geometry"
	U "github.com/hoopoe/cmag/utils"
	V "github.com/hoopoe/cmag/vector"
	jww "github.com/spf13/jwalterweatherman"
)

const (
	STATE_PLAY  = 15
	STATE_PAUSE = 16

	COMMAND_QUEUE = 32
)

type Command int

const (
	CMD_NONE  Command = iota
	CMD_PAUSE         //toggle play / pause
	CMD_STEP          //one update regardless of the pause state
	CMD_RESET         //back to the initial layout
	CMD_QUIT
)

//ErrQuit ends Run without an error
var ErrQuit = errors.New("quit")

//KeyCommand - the demo key map: space, enter, '1', q / esc
func KeyCommand(key rune) Command {
	switch key {
	case ' ':
		return CMD_PAUSE
	case '\r', '\n':
		return CMD_STEP
	case '1':
		return CMD_RESET
	case 'q', '\033':
		return CMD_QUIT
	}
	return CMD_NONE
}

//Frame - host buffers of one drawn frame. Positions and Colors hold 4
//float32 per particle and are reused by the next frame.
type Frame struct {
	Index     int
	Positions []float32
	Colors    []float32
	Stats     F.Stats
}

type FrameFunc func(frame *Frame) error

//Seconds timer for animation
type AnimationTimer struct {
	AppStart    time.Time //Run started
	CurrentTime time.Time //Last polled time
	LastFrame   time.Time //Last frame handed out
}

func (a *AnimationTimer) Start() {
	now := time.Now()
	a.AppStart, a.CurrentTime, a.LastFrame = now, now, now
}

//Tick - seconds since the previous frame
func (a *AnimationTimer) Tick() float64 {
	a.CurrentTime = time.Now()
	dt := a.CurrentTime.Sub(a.LastFrame).Seconds()
	a.LastFrame = a.CurrentTime
	return dt
}

type Runner struct {
	SPH       *F.ChannelFlow
	OnFrame   FrameFunc
	Normalize bool    //map the grid box onto [-1, 1]
	Scale     float64 //extra scale of the normalised positions about the origin, 0 or 1 for none
	Anim      AnimationTimer

	state    int
	frames   int
	commands chan Command
	frame    Frame
	host     []V.Vec4
	log      *jww.Notepad
}

//NewRunner - a playing runner over sph, onFrame may be nil
func NewRunner(sph *F.ChannelFlow, onFrame FrameFunc, log *jww.Notepad) *Runner {
	if log == nil {
		log = F.DiscardLog()
	}
	n := sph.NumParticles()
	return &Runner{
		SPH:       sph,
		OnFrame:   onFrame,
		Normalize: true,
		state:     STATE_PLAY,
		commands:  make(chan Command, COMMAND_QUEUE),
		frame: Frame{
			Positions: make([]float32, n*U.COMPONENTS),
			Colors:    make([]float32, n*U.COMPONENTS),
		},
		log: log,
	}
}

func (r *Runner) Paused() bool {
	return r.state == STATE_PAUSE
}

func (r *Runner) Frames() int {
	return r.frames
}

//Send - queues a command for the next frame, safe from any goroutine. A full
//queue drops the command.
func (r *Runner) Send(c Command) {
	select {
	case r.commands <- c:
	default:
		r.log.WARN.Printf("command queue full, dropped command %d", c)
	}
}

//apply drains the queue, returns ErrQuit on CMD_QUIT
func (r *Runner) apply() error {
	for {
		select {
		case c := <-r.commands:
			switch c {
			case CMD_PAUSE:
				if r.state == STATE_PLAY {
					r.state = STATE_PAUSE
				} else {
					r.state = STATE_PLAY
				}
				r.log.INFO.Printf("paused: %v", r.Paused())
			case CMD_STEP:
				if err := r.SPH.Update(); err != nil {
					return err
				}
			case CMD_RESET:
				r.SPH.Reset()
				r.log.INFO.Printf("reset at frame %d", r.frames)
			case CMD_QUIT:
				return ErrQuit
			}
		default:
			return nil
		}
	}
}

//Frame - applies queued commands, updates once unless paused and emits the
//frame
func (r *Runner) Frame() error {
	if err := r.apply(); err != nil {
		return err
	}
	if r.state == STATE_PLAY {
		if err := r.SPH.Update(); err != nil {
			return err
		}
	}
	dt := r.Anim.Tick()

	if err := r.fill(); err != nil {
		return err
	}
	r.frame.Index = r.frames
	r.frames++
	st := &r.frame.Stats
	r.log.DEBUG.Printf("frame %d (%.3fs) t=%g steps=%d max |v|=%g mean vx=%g rho [%g, %g]",
		r.frame.Index, dt, st.Time, st.Steps, st.MaxSpeed, st.MeanSpeedX, st.MinDensity, st.MaxDensity)

	if r.OnFrame == nil {
		return nil
	}
	return r.OnFrame(&r.frame)
}

func (r *Runner) fill() error {
	n := r.SPH.NumParticles()
	r.host = r.SPH.Positions()
	if r.Normalize {
		params := r.SPH.Parameters()
		box := G.InitBox(params.Origin, params.Extent)
		U.Normalize(r.host, box.Min, box.Size())
		if r.Scale != 0 && r.Scale != 1 {
			U.ScalePositions(r.host, V.Vec3{}, r.Scale)
		}
	}
	if err := U.TransferPositionData(r.frame.Positions, r.host, n); err != nil {
		return err
	}
	if err := U.TransferPositionData(r.frame.Colors, r.SPH.ColorBuffer(), n); err != nil {
		return err
	}
	r.frame.Stats = r.SPH.Stats()
	return nil
}

//Run - emits frames until n frames were drawn (n <= 0 runs until quit or
//cancel). CMD_QUIT ends the run cleanly.
func (r *Runner) Run(ctx context.Context, n int) error {
	r.Anim.Start()
	for i := 0; n <= 0 || i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.Frame(); err != nil {
			if errors.Is(err, ErrQuit) {
				r.log.INFO.Printf("quit after %d frames", r.frames)
				return nil
			}
			return err
		}
	}
	return nil
}
