package utils

import (
	"fmt"

	V "github.com/hoopoe/cmag/vector"
)

//Host buffer helpers for viewers. Engine arrays are float64 quads; render
//buffers are flat float32 streams of 4 components per particle.

const COMPONENTS = 4

//TransferPositionData - packs count quads of src into dst as float32, dst
//must hold at least count*4 values
func TransferPositionData(dst []float32, src []V.Vec4, count int) error {
	if count < 0 || count > len(src) {
		return fmt.Errorf("size of positional data buffer transfer out of bounds: %d of %d", count, len(src))
	}
	if len(dst) < count*COMPONENTS {
		return fmt.Errorf("target buffer holds %d values, %d required", len(dst), count*COMPONENTS)
	}

	for i := 0; i < count; i++ {
		q := src[i]
		o := i * COMPONENTS
		dst[o] = float32(q[0])
		dst[o+1] = float32(q[1])
		dst[o+2] = float32(q[2])
		dst[o+3] = float32(q[3])
	}
	return nil
}

//ScalePositions - scales the spatial part of every quad around origin, w is
//left alone
func ScalePositions(pos []V.Vec4, origin V.Vec3, scale float64) {
	for i, q := range pos {
		p := q.Vec3().Sub(origin).Mul(scale).Add(origin)
		pos[i] = V.Pack(p, q[3])
	}
}

//Normalize - maps quads from the box [min, min+size] into [-1, 1] keeping
//the aspect ratio, the largest axis spans the full range
func Normalize(pos []V.Vec4, min V.Vec3, size V.Vec3) {
	span := size[0]
	for i := 1; i < 3; i++ {
		if size[i] > span {
			span = size[i]
		}
	}
	if span <= 0 {
		return
	}
	centre := min.Add(size.Mul(0.5))
	for i, q := range pos {
		p := q.Vec3().Sub(centre).Mul(2 / span)
		pos[i] = V.Pack(p, q[3])
	}
}
