package vif

// Separable Gaussian kernels, one per scale. Coefficients are Q16 unsigned
// and every row sums to exactly 1<<16, so filtering a constant plane
// reproduces the constant after the per-pass shifts.
var filterTable = [4][]uint16{
	{489, 935, 1640, 2640, 3896, 5274, 6547, 7455, 7784, 7455, 6547, 5274, 3896, 2640, 1640, 935, 489},
	{1244, 3663, 7925, 12590, 14692, 12590, 7925, 3663, 1244},
	{3571, 16004, 26386, 16004, 3571},
	{10904, 43728, 10904},
}
