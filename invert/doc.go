/*
Package invert solves the regularized linear inverse problem of a
pixelized source reconstruction.

Given the blurred mapping matrix M, noise map sigma, data d and
regularization matrix R, the reconstruction s solves

	(F + R) s = M' diag(1/sigma^2) d,   F = M' diag(1/sigma^2) M

via Cholesky factorization. A System captures one factorized F + R so
the solve and the log-determinant that enters the Bayesian evidence
come from the same matrix:

	sys, err := invert.NewSystem(F, R)   // NotPosDefError if F+R is not PD
	s := sys.Solve(rhs)
	logDet := sys.LogDet()

Log-determinants go through the Cholesky factor, 2 sum log diag(L),
which stays finite where a direct determinant of a large near-singular
matrix would under- or overflow.
*/
package invert
