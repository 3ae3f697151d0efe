package profilematch

import (
	"errors"
	"fmt"

	"github.com/extrusionkit/profilematch/distance"
	"github.com/extrusionkit/profilematch/feature"
	"github.com/extrusionkit/profilematch/matcher"
	"github.com/extrusionkit/profilematch/normalize"
)

var (
	// ErrGeometry indicates a malformed or degenerate input profile.
	ErrGeometry = errors.New("invalid geometry")

	// ErrFeature indicates a profile with too few samples for a requested
	// descriptor family.
	ErrFeature = errors.New("feature extraction failed")

	// ErrLayoutMismatch indicates a comparison between feature vectors
	// produced under different extraction configurations.
	ErrLayoutMismatch = errors.New("incomparable vector layouts")

	// ErrEmptyCorpus is returned when ranking against an empty reference set.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")
)

// translateError unifies subpackage errors under the package-level
// sentinels. The original underlying error remains reachable via errors.Is
// and errors.As.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ge *normalize.GeometryError
	if errors.As(err, &ge) {
		return fmt.Errorf("%w: %w", ErrGeometry, err)
	}

	var fe *feature.FeatureError
	if errors.As(err, &fe) {
		return fmt.Errorf("%w: %w", ErrFeature, err)
	}

	var lm *distance.LayoutMismatchError
	if errors.As(err, &lm) {
		return fmt.Errorf("%w: %w", ErrLayoutMismatch, err)
	}

	if errors.Is(err, matcher.ErrEmptyCorpus) {
		return fmt.Errorf("%w: %w", ErrEmptyCorpus, err)
	}
	if errors.Is(err, matcher.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}

	return err
}
