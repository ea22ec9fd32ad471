// Package parallel splits CPU frame processing into horizontal bands and
// runs them on a work-stealing goroutine pool.
package parallel
