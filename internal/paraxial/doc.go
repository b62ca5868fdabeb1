// Package paraxial provides ray-transfer ("ABCD") matrix algebra for
// paraxial rays and Gaussian beams.
//
// The package is built around two value families:
//
//   - [Ray], [RayBundle] and [GaussianBeam]: optical states at a plane
//   - [Element]: an augmented 2x3 affine transform between two planes
//
// Elements are built with [NewElement] or one of the named surfaces
// ([Transfer], [Refraction], [Mirror], [Duct], [Grating], [ThinLens],
// [ThickLens]), chained with [Compose] or [Sequence], and applied to states.
//
// # Ordering
//
// Composition reads like matrix multiplication: in a.Compose(b) the ray
// meets b first. [Sequence] takes elements in the order light meets them:
//
//	focuser := paraxial.Sequence(paraxial.ThinLens(10e-3), paraxial.Transfer(10e-3, 1))
//	out := focuser.Apply(paraxial.NewRay(1e-3, 0))
//
// # Angles
//
// Elements act on reduced angles (n·u). Rays store the physical angle u and
// the local index n; [Element.Apply] converts on the way in and out.
//
// # Afocal Systems
//
// Cardinal points are derived from C. For C == 0 they are reported as
// signed infinities rather than errors.
package paraxial
