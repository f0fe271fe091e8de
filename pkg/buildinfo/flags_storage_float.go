//go:build dice_float_storage && !dice_int_storage

package buildinfo

const storageOverride = OverrideFloat
