package filename

import (
	"fmt"
	"strconv"
	"strings"

	"firestige.xyz/sharp/internal/core"
)

// Version is a major.minor.patch product version.
type Version struct {
	Major uint
	Minor uint
	Patch uint
}

// ParseVersion parses "X.Y.Z" where every component is an unsigned decimal.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: Version, %s, is not formatted correctly. Should be X.Y.Z", core.ErrInvalidVersion, s)
	}
	var nums [3]uint
	for i, p := range parts {
		if p == "" || p[0] == '+' || p[0] == '-' {
			return Version{}, fmt.Errorf("%w: Version, %s, is not all integers.", core.ErrInvalidVersion, s)
		}
		n, err := strconv.ParseUint(p, 10, 0)
		if err != nil {
			return Version{}, fmt.Errorf("%w: Version, %s, is not all integers.", core.ErrInvalidVersion, s)
		}
		nums[i] = uint(n)
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
