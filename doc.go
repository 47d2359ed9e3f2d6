// Package cvt bins a 2-D cloud of weighted points into regions of roughly
// equal total weight using a centroidal Voronoi tessellation computed by
// Lloyd's relaxation.
//
// Each iteration assigns every point to its nearest node and moves each node
// to the weight²-weighted centroid of its points (Cappellari & Copin 2003).
// Weighting by the square drives cells toward equal summed weight rather than
// equal point counts. Nodes that lose all their points are parked at the
// (0, 0) sentinel.
//
// Basic usage:
//
//	points := cvt.PointSet{X: xs, Y: ys, W: weights}
//	res, err := cvt.Tessellate(ctx, points, seeds, cvt.DefaultConfig())
//	// res.Assignment[i] is the node of point i
//	// res.NodeWeights[j] is the summed weight of node j
//
// The frozen nodes can then be rasterised and queried:
//
//	part, _ := res.Partition()
//	_ = part.SetPixelGrid([2]int{0, 500}, [2]int{0, 500})
//	seg, _ := part.SegmentationMap(ctx)
//	areas, _ := part.CellAreas(ctx, flags)
//	bins, _ := part.PartitionPoints(qx, qy)
//
// # Nearest-node strategy
//
// The assignment step is O(N*M) with a linear scan. Config.Strategy selects
// between a brute-force scan and a KD-tree over the nodes; "auto" uses the
// scan for small node counts. Every strategy breaks exact distance ties in
// favour of the lowest node index, so results never depend on the choice:
//
//	cfg.Strategy = cvt.StrategyBrute
//	cfg.Strategy = cvt.StrategyKDTree
//
// # Termination
//
// The run stops once the total squared node displacement of an iteration is
// at most Config.Epsilon; with the default of 0 that is an exact fixed point.
// Config.MaxIterations bounds the run and yields ErrConvergence when hit.
package cvt
