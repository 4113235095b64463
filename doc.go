// Package kmeans1d clusters scalar data with Lloyd's K-means algorithm,
// splitting each pass across a fixed number of worker goroutines.
//
// # Overview
//
// A run alternates two data-parallel phases until the total squared error
// (SSE) stops changing:
//
//   - Assign: every point is labelled with its nearest centroid. Workers own
//     disjoint index ranges of the assignment slice and one partial SSE each.
//   - Update: every centroid becomes the mean of its points. Workers fill
//     private rows of (sum, count) accumulators; after all workers return the
//     rows are merged sequentially.
//
// The loop stops when |sse - prev| / prev < Eps or after MaxIter passes.
//
// # Quick Start
//
//	x := []float64{1, 2, 3, 10, 11, 12}
//	c := []float64{0, 5}
//
//	res, err := kmeans1d.Cluster(x, c, kmeans1d.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(c)               // [2 11]
//	fmt.Println(res.Assignments) // [0 0 0 1 1 1]
//	fmt.Println(res.SSE)         // 4
//
// For repeated runs build an Engine once:
//
//	engine, err := kmeans1d.New(cfg,
//	    kmeans1d.WithLogger(logger),
//	    kmeans1d.WithMetrics(kmeans1d.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//	res, err := engine.Run(x, c, assignments)
//
// # Empty clusters
//
// A centroid that receives no points is moved to x[0]. This can make two
// centroids coincide. The behaviour is deterministic and intentionally kept.
//
// # Determinism
//
// For a fixed worker count, identical input gives identical output. Across
// worker counts assignments and centroids agree, while the SSE may differ in
// the last bits because partial sums are added in a different grouping.
// Both reductions (MergePartial and the SSE sum) are checked for
// associativity and commutativity at init; see RequireLaws.
//
// # Scaling
//
// MeasureScaling runs full clusterings at several worker counts and FitUSL
// fits the Universal Scalability Law
//
//	C(N) = λN / (1 + α(N-1) + βN(N-1))
//
// to the measured runs per second. RecommendWorkers turns the fit into a
// worker count. Each level also reports the P99/P50 ratio of iteration times
// from a TailTracker, which exposes straggling workers.
package kmeans1d
