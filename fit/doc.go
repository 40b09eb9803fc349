/*
Package fit evaluates how well a lens model reproduces an observed
image. It is the surface the non-linear sampler drives: every call is
a pure computation from (model, fixed data) to a scalar, with no state
shared between evaluations beyond the read-only convolver.

Profiles scores a parametric model by its likelihood

	-0.5 * (chi^2 + sum log(2 pi sigma^2))

while Pixelization reconstructs the source on an adaptive mesh and
scores the model by the Bayesian evidence, which adds the Occam terms

	-0.5 * (chi^2 + s'Rs + log det(F+R) - log det R + sum log(2 pi sigma^2))

so that models with more source pixels or weaker regularization pay
for the extra freedom they buy. All determinant and chi-squared terms
are computed from the same matrices used in the solve.

Every ill-posed model surfaces as a typed error (geom.ConfigError,
geom.ShapeError, pixelize.SingularError, invert.NotPosDefError); the
caller converts these to rejected samples rather than crashing the
search.
*/
package fit
