// Package imageinline turns the image sources of an exported article into
// data URIs so the paste target never has to reach the original host.
//
// Every image is fetched concurrently inside one task group that joins
// before the tree is touched. A failed image keeps its original source and
// counts as a failure; it never aborts the group. Sources that already are
// data URIs pass through and count as successes.
package imageinline
