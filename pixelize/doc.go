/*
Package pixelize partitions ray-traced source-plane coordinates into an
adaptive mesh of source pixels and builds the structures the inversion
consumes: the mapping matrix, the neighbor graph between source pixels
and the regularization matrix over them.

Two meshing schemes are provided. The cluster-grid scheme seeds cell
centers from a sparse subset of the image pixels, traced to the source
plane, so cell density follows image magnification. The kmeans scheme
seeds centers by clustering the traced sub-pixel cloud itself. Both
assign every sub-pixel to its nearest center; a cell that captures no
flux, or coincident centers, make the inversion ill-posed and raise a
SingularError.
*/
package pixelize
