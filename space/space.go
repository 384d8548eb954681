// Package space selects the distance space an index is built on.
//
// A Space is stateless apart from its dimension, so the same instance can be
// handed back to an engine when an index is reloaded from disk.
package space

import (
	"errors"
	"fmt"

	"github.com/hupe1980/hnswkit/distance"
)

// Kind identifies a distance space.
type Kind uint8

const (
	// Euclidean uses squared L2 distance.
	Euclidean Kind = iota
	// InnerProduct uses 1 - dot(a, b).
	InnerProduct
	// Cosine uses 1 - dot(a, b) over L2-normalized vectors.
	Cosine
)

// String returns the engine-native space name.
func (k Kind) String() string {
	switch k {
	case Euclidean:
		return "l2"
	case InnerProduct:
		return "ip"
	case Cosine:
		return "cosine"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ParseKind maps a space name ("l2", "ip", "cosine" and a few aliases) to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "l2", "L2", "euclidean":
		return Euclidean, nil
	case "ip", "IP", "inner_product", "dot":
		return InnerProduct, nil
	case "cosine", "Cosine":
		return Cosine, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

var (
	// ErrUnknownKind is returned for an unsupported space kind.
	ErrUnknownKind = errors.New("unknown space kind")

	// ErrInvalidDimension is returned when the dimension is not positive.
	ErrInvalidDimension = errors.New("dimension must be positive")
)

// Space is a distance space bound to a fixed dimension.
type Space interface {
	// Kind reports the space kind.
	Kind() Kind
	// Dim reports the vector dimension.
	Dim() int
	// Distance returns the distance between two prepared vectors.
	Distance(a, b []float32) float32
	// Prepare returns the representation stored and searched by the engine.
	// Cosine spaces return a normalized copy; other spaces return v.
	Prepare(v []float32) []float32
	// Close releases the space. Further use is a programming error.
	Close() error
}

// New returns the space for kind with the given dimension.
func New(kind Kind, dim int) (Space, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}

	switch kind {
	case Euclidean:
		return &l2Space{dim: dim}, nil
	case InnerProduct:
		return &ipSpace{dim: dim}, nil
	case Cosine:
		return &ipSpace{dim: dim, normalize: true}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

type l2Space struct {
	dim int
}

func (s *l2Space) Kind() Kind                      { return Euclidean }
func (s *l2Space) Dim() int                        { return s.dim }
func (s *l2Space) Distance(a, b []float32) float32 { return distance.SquaredL2(a, b) }
func (s *l2Space) Prepare(v []float32) []float32   { return v }
func (s *l2Space) Close() error                    { return nil }

type ipSpace struct {
	dim       int
	normalize bool
}

func (s *ipSpace) Kind() Kind {
	if s.normalize {
		return Cosine
	}

	return InnerProduct
}

func (s *ipSpace) Dim() int { return s.dim }

func (s *ipSpace) Distance(a, b []float32) float32 {
	return distance.InnerProductDistance(a, b)
}

func (s *ipSpace) Prepare(v []float32) []float32 {
	if !s.normalize {
		return v
	}

	// Zero vectors stay zero, matching hnswlib's normalize_vector.
	out, _ := distance.NormalizeL2Copy(v)

	return out
}

func (s *ipSpace) Close() error { return nil }
