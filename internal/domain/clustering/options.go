package clustering

// Option configures a Clusterer.
type Option func(*Clusterer)

// WithSeed sets the random seed used for centroid seeding.
func WithSeed(seed int64) Option {
	return func(c *Clusterer) { c.seed = seed }
}

// WithInitializations sets how many seeded runs are tried; the lowest inertia wins.
func WithInitializations(n int) Option {
	return func(c *Clusterer) {
		if n > 0 {
			c.nInit = n
		}
	}
}

// WithMaxIterations bounds Lloyd iterations per run.
func WithMaxIterations(n int) Option {
	return func(c *Clusterer) {
		if n > 0 {
			c.maxIter = n
		}
	}
}

// WithTolerance sets the convergence threshold, relative to the mean feature variance.
func WithTolerance(tol float64) Option {
	return func(c *Clusterer) {
		if tol >= 0 {
			c.tol = tol
		}
	}
}

// WithMaxClusters caps k.
func WithMaxClusters(k int) Option {
	return func(c *Clusterer) {
		if k >= minClusters {
			c.maxK = k
		}
	}
}
