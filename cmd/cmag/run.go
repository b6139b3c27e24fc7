package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"

	"github.com/hoopoe/cmag/app"
	"github.com/spf13/cobra"
)

func (c *cli) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Steps the channel headless, one update per frame, logging statistics",
		Long: `run drives the viewer loop without a window. With --keys the demo key map
is read from stdin: space pauses, enter steps once, 1 resets, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sph, err := c.channel()
			if err != nil {
				return err
			}

			every := c.v.GetInt("every")
			r := app.NewRunner(sph, func(frame *app.Frame) error {
				if every > 0 && frame.Index%every == 0 {
					st := frame.Stats
					c.log.INFO.Printf("frame %d t=%g steps=%d rho [%g, %g] max p=%g max |v|=%g mean vx=%g",
						frame.Index, st.Time, st.Steps, st.MinDensity, st.MaxDensity,
						st.MaxPressure, st.MaxSpeed, st.MeanSpeedX)
				}
				return nil
			}, c.log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if c.v.GetBool("keys") {
				keyCtx, cancel := context.WithCancel(ctx)
				done := make(chan struct{})
				go func() {
					readKeys(keyCtx, cmd.InOrStdin(), r)
					close(done)
				}()
				defer func() {
					cancel()
					<-done
				}()
			}

			err = r.Run(ctx, c.v.GetInt("frames"))
			if errors.Is(err, context.Canceled) {
				c.log.WARN.Printf("interrupted after %d frames", r.Frames())
				return nil
			}
			return err
		},
	}

	cmd.Flags().Int("frames", 200, "frames to draw, 0 runs until interrupted or quit")
	cmd.Flags().Int("every", 20, "log statistics every n frames, 0 for never")
	cmd.Flags().Bool("keys", false, "read pause / step / reset / quit keys from stdin")
	c.v.BindPFlags(cmd.Flags())
	return cmd
}

//readKeys forwards key presses until in is exhausted or ctx is done. A Read
//still blocked on in when ctx ends is abandoned and finishes with the process.
func readKeys(ctx context.Context, in io.Reader, r *app.Runner) {
	keys := make(chan rune)
	go func() {
		defer close(keys)
		br := bufio.NewReader(in)
		for {
			key, _, err := br.ReadRune()
			if err != nil {
				return
			}
			select {
			case keys <- key:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-keys:
			if !ok {
				return
			}
			if cmd := app.KeyCommand(key); cmd != app.CMD_NONE {
				r.Send(cmd)
			}
		}
	}
}
