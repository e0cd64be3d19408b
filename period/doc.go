// Package period validates period-identifier columns of planning tables.
//
// A planning horizon of N periods is identified by the integers 1..N. Every
// period-indexed table (time periods, demand, costs) must carry a column that
// is an exact permutation of 1..N: no gaps, no duplicates, no non-integers.
// Rows do not have to be sorted.
//
// The only way to obtain an ID is through ValidateColumn, so code holding an
// Index may index arrays by id, by id-1 ("previous period") and by Last()
// without re-checking contiguity.
//
// Examples:
//
//	[1, 4, 7, 5, 6, 3, 2] → valid, N = 7
//	[3, 5, 4, 1]          → invalid, 2 is missing
//	[1, 2, 2]             → invalid, 2 is duplicated
//	[1, 1.532]            → invalid, non-integer entry
//
// Complexity: O(N) time and O(N) memory per column.
package period
