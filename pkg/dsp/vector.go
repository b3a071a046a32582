package dsp

import (
	"math"

	"github.com/golang/geo/r3"
)

// Vec3 is a position or direction in listener/emitter space. It is an
// alias for r3.Vector so spatial math (Add, Sub, scalar Mul, Dot, Norm)
// comes straight from golang/geo rather than being hand-rolled here.
type Vec3 = r3.Vector

var (
	// Left and Right are unit ear directions in listener-local space.
	Left  = Vec3{X: -1, Y: 0, Z: 0}
	Right = Vec3{X: 1, Y: 0, Z: 0}
)

// Quaternion represents a 3D orientation. golang/geo has no orientation
// type (it models points and regions on a sphere, not rigid-body rotation),
// so this is hand-written — it is itself one of the spec's own
// "vector/quaternion math" primitives (spec.md §2), not an ambient concern.
type Quaternion struct {
	X, Y, Z, W float64
}

// Identity is the orientation with no rotation applied.
var Identity = Quaternion{W: 1}

// FromAxisAngle builds a unit quaternion representing a rotation of angle
// radians around axis.
func FromAxisAngle(axis Vec3, angle float64) Quaternion {
	axis = axis.Normalize()
	s := math.Sin(angle / 2)
	return Quaternion{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: math.Cos(angle / 2),
	}
}

// RotatePoint rotates v by q.
func (q Quaternion) RotatePoint(v Vec3) Vec3 {
	// t = 2 * cross(q.xyz, v)
	qv := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := qv.Cross(v).Mul(2)
	// v' = v + q.w*t + cross(q.xyz, t)
	return v.Add(t.Mul(q.W)).Add(qv.Cross(t))
}

// Mul composes two rotations: (q.Mul(r)).RotatePoint(v) == q.RotatePoint(r.RotatePoint(v)).
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}
