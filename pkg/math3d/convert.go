package math3d

import "github.com/taigrr/softrender/pkg/scalar"

// ConvertVec3 re-expresses v in another scalar type.
func ConvertVec3[U scalar.Number[U], T scalar.Number[T]](v Vec3[T]) Vec3[U] {
	return V3f[U](v.X.Float64(), v.Y.Float64(), v.Z.Float64())
}
