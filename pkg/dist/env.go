package dist

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Launcher environment variables, most specific first. DICE_* is set by
// our own launch scripts; the others by Open MPI, MPICH/Hydra and PMIx
// launchers respectively.
var (
	rankEnvVars = []string{"DICE_RANK", "OMPI_COMM_WORLD_RANK", "PMI_RANK", "PMIX_RANK"}
	sizeEnvVars = []string{"DICE_WORLD_SIZE", "OMPI_COMM_WORLD_SIZE", "PMI_SIZE"}
)

// resolveRank determines rank and world size. Explicit configuration wins;
// otherwise the launcher environment is read. A process started without
// any launcher variables is a group of one.
func resolveRank(cfg Config) (rank, size int, err error) {
	if cfg.Size > 0 {
		rank, size = cfg.Rank, cfg.Size
	} else {
		var rankSet, sizeSet bool
		if rank, rankSet, err = lookupInt(cfg.Lookup, rankEnvVars); err != nil {
			return 0, 0, err
		}
		if size, sizeSet, err = lookupInt(cfg.Lookup, sizeEnvVars); err != nil {
			return 0, 0, err
		}
		switch {
		case !rankSet && !sizeSet:
			return 0, 1, nil
		case !sizeSet:
			return 0, 0, fmt.Errorf("rank %d set without a world size (%s)", rank, strings.Join(sizeEnvVars, ", "))
		case !rankSet:
			rank = 0
		}
	}

	if size < 1 || rank < 0 || rank >= size {
		return 0, 0, fmt.Errorf("%w: rank %d in world of size %d", ErrInvalidRank, rank, size)
	}
	return rank, size, nil
}

// lookupInt returns the value of the first variable in keys that is set.
func lookupInt(lookup func(string) (string, bool), keys []string) (int, bool, error) {
	for _, key := range keys {
		raw, ok := lookup(key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		u, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("parse %s=%q: %w", key, raw, err)
		}
		v, err := safecast.Conv[int](u)
		if err != nil {
			return 0, false, fmt.Errorf("parse %s=%q: %w", key, raw, err)
		}
		return v, true, nil
	}
	return 0, false, nil
}

// LauncherRank reports the rank and world size the coordinated runtime
// would use for cfg, without starting it.
func LauncherRank(cfg Config) (rank, size int, err error) {
	cfg.applyDefaults()
	return resolveRank(cfg)
}
