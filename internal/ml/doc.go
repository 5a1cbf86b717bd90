// Package ml trains the models over the warehouse feature dataset:
// unemployment-rate regression with a random forest and gradient-boosted
// trees, k-means clustering of regions by employment profile, and an additive
// seasonal decomposition of the national unemployment series. Charts are
// written as PNGs under the ML output directory.
package ml
