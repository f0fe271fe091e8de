//go:build !dice_dist

package buildinfo

const distributed = false
