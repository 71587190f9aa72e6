package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bls377fr "github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"

	"github.com/agbru/polymul/internal/config"
	apperrors "github.com/agbru/polymul/internal/errors"
	"github.com/agbru/polymul/internal/poly"
	"github.com/agbru/polymul/internal/polymul"
	"github.com/agbru/polymul/internal/ring"
	"github.com/agbru/polymul/pkg/models"
)

var (
	// ErrTooManyTerms is returned when an operand exceeds the configured
	// maximum number of coefficients.
	ErrTooManyTerms = errors.New("too many coefficients")
	// ErrUnknownAlgorithm is returned for an unregistered multiplier name.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	// ErrUnknownRing is returned for a ring name the service does not serve.
	ErrUnknownRing = errors.New("unknown ring")
)

// Service defines the interface for polynomial multiplication services.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Multiply parses, validates and multiplies the operands of req.
	// Invalid input is reported as an apperrors.ValidationError.
	Multiply(ctx context.Context, req models.MultiplyRequest) (models.MultiplyResponse, error)
	// Rings returns the ring names accepted by Multiply.
	Rings() []string
	// Algorithms returns the multiplier names accepted by Multiply.
	Algorithms() []string
}

// MultiplyService centralizes request validation, ring selection and
// multiplier lookup. Implements the Service interface.
type MultiplyService struct {
	config   config.AppConfig
	maxTerms int
}

// Ensure MultiplyService implements Service interface.
var _ Service = (*MultiplyService)(nil)

// NewMultiplyService creates a new instance of MultiplyService.
//
// Parameters:
//   - cfg: The application configuration (default threshold and modulus).
//   - maxTerms: The maximum number of coefficients per operand (0 for no limit).
func NewMultiplyService(cfg config.AppConfig, maxTerms int) *MultiplyService {
	return &MultiplyService{config: cfg, maxTerms: maxTerms}
}

func (s *MultiplyService) Rings() []string { return ring.Names() }

func (s *MultiplyService) Algorithms() []string { return polymul.Names() }

// Multiply validates req, applies the server defaults and computes a·b. The
// product is discarded, and ctx's error returned, if ctx ends before the
// multiplication completes.
func (s *MultiplyService) Multiply(ctx context.Context, req models.MultiplyRequest) (models.MultiplyResponse, error) {
	if err := s.validate(&req); err != nil {
		return models.MultiplyResponse{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.MultiplyResponse{}, err
	}

	resp, err := s.dispatch(req)
	if err != nil {
		return models.MultiplyResponse{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.MultiplyResponse{}, err
	}
	return resp, nil
}

// options are the server's Karatsuba options with the request threshold.
func (s *MultiplyService) options(req models.MultiplyRequest) polymul.Options {
	opts := s.config.KaratsubaOptions()
	opts.Threshold = req.Threshold
	return opts
}

func (s *MultiplyService) dispatch(req models.MultiplyRequest) (models.MultiplyResponse, error) {
	opts := s.options(req)
	switch req.Ring {
	case ring.NameInt64:
		return multiplyIn[int64](ring.Int64{}, req, opts)
	case ring.NameFloat64:
		return multiplyIn[float64](ring.Float64{}, req, opts)
	case ring.NameZMod:
		r, err := ring.NewZMod(req.Modulus)
		if err != nil {
			return models.MultiplyResponse{}, apperrors.NewValidationError("modulus", err.Error(), req.Modulus)
		}
		return multiplyIn[uint64](r, req, opts)
	case ring.NameBN254:
		return multiplyIn[bn254fr.Element](ring.BN254{}, req, opts)
	case ring.NameBLS12377:
		return multiplyIn[bls377fr.Element](ring.BLS12377{}, req, opts)
	case ring.NameUint256:
		return multiplyIn[uint256.Int](ring.Uint256{}, req, opts)
	default:
		return models.MultiplyResponse{}, apperrors.NewValidationError("ring",
			fmt.Sprintf("%v: %q", ErrUnknownRing, req.Ring), req.Ring)
	}
}

// validate checks the operand sizes and fills in defaults.
func (s *MultiplyService) validate(req *models.MultiplyRequest) error {
	if req.Ring == "" {
		req.Ring = config.DefaultRing
	}
	if req.Algorithm == "" {
		req.Algorithm = polymul.NameKaratsuba
	}
	if req.Threshold == 0 {
		req.Threshold = max(s.config.Threshold, 1)
	}
	if req.Modulus == 0 {
		req.Modulus = s.config.Modulus
	}

	for _, op := range []struct {
		field string
		terms []string
	}{{"a", req.A}, {"b", req.B}} {
		if len(op.terms) == 0 {
			return apperrors.NewValidationError(op.field, poly.ErrEmpty.Error(), nil)
		}
		if s.maxTerms > 0 && len(op.terms) > s.maxTerms {
			return apperrors.NewValidationError(op.field,
				fmt.Sprintf("%v: %d exceeds the limit of %d", ErrTooManyTerms, len(op.terms), s.maxTerms), len(op.terms))
		}
	}
	if !poly.IsPowerOfTwo(req.Threshold) {
		return apperrors.NewValidationError("threshold",
			fmt.Sprintf("%v: got %d", polymul.ErrInvalidThreshold, req.Threshold), req.Threshold)
	}
	return nil
}

func multiplyIn[E any](r ring.Ring[E], req models.MultiplyRequest, opts polymul.Options) (models.MultiplyResponse, error) {
	a, err := parseOperand(r, "a", req.A)
	if err != nil {
		return models.MultiplyResponse{}, err
	}
	b, err := parseOperand(r, "b", req.B)
	if err != nil {
		return models.MultiplyResponse{}, err
	}

	m, err := polymul.NewFactory[E](opts).Get(req.Algorithm)
	if err != nil {
		return models.MultiplyResponse{}, apperrors.NewValidationError("algorithm",
			fmt.Sprintf("%v: %q", ErrUnknownAlgorithm, req.Algorithm), req.Algorithm)
	}

	start := time.Now()
	product, err := m.Multiply(a, b)
	duration := time.Since(start)
	if err != nil {
		return models.MultiplyResponse{}, err
	}

	resp := models.MultiplyResponse{
		Ring:         r.Name(),
		Algorithm:    m.Name(),
		Threshold:    req.Threshold,
		Coefficients: ring.FormatAll(r, product.Trim().View()),
		Rendered:     product.String(),
		Degree:       product.LeadingDegree(),
		Duration:     duration.String(),
	}
	if km, ok := m.(*polymul.KaratsubaMultiplier[E]); ok {
		resp.ParallelThreshold = km.Options().ParallelThreshold
	}
	return resp, nil
}

func parseOperand[E any](r ring.Ring[E], field string, terms []string) (poly.Polynomial[E], error) {
	coeffs, err := ring.ParseAll(r, terms)
	if err != nil {
		return poly.Polynomial[E]{}, apperrors.NewValidationError(field, err.Error(), nil)
	}
	p, err := poly.From(r, coeffs)
	if err != nil {
		return poly.Polynomial[E]{}, apperrors.NewValidationError(field, err.Error(), nil)
	}
	return p, nil
}
