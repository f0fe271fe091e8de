//go:build !dice_int_storage && !dice_float_storage

package buildinfo

const storageOverride = OverrideNone
