//go:build dice_int_storage && dice_float_storage

package buildinfo

// dice_int_storage and dice_float_storage are mutually exclusive.
var _ = storageOverride_tags_dice_int_storage_and_dice_float_storage_are_mutually_exclusive
