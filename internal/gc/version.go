package gc

import (
	"fmt"

	semver "github.com/Masterminds/semver/v3"
)

// APIVersion identifies the in-memory cell layout and the behavior of the
// exported entry points. Embedders that persist or share a region across
// process builds should gate on it with RequireVersion rather than
// assuming layout stability.
const APIVersion = "1.0.0"

// RequireVersion reports an error if APIVersion does not satisfy
// constraint, a standard semver constraint expression such as "^1.0.0" or
// ">=1.0.0, <2.0.0". Embedders call this once at startup to fail fast
// against a cell layout they were not built against.
func RequireVersion(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return newError(CategoryValidation, "BAD_CONSTRAINT",
			fmt.Sprintf("invalid version constraint %q: %v", constraint, err))
	}

	v, err := semver.NewVersion(APIVersion)
	if err != nil {
		return newError(CategoryValidation, "BAD_VERSION",
			fmt.Sprintf("invalid api version %q: %v", APIVersion, err))
	}

	if !c.Check(v) {
		return newError(CategoryValidation, "VERSION_MISMATCH",
			fmt.Sprintf("api version %s does not satisfy %q", APIVersion, constraint))
	}

	return nil
}
