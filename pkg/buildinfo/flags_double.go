//go:build dice_double

package buildinfo

const useDouble = true
