// Package calibration finds the Karatsuba base-case threshold that is fastest
// on the current machine and persists it as a profile reused by later runs.
package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sys/cpu"

	"github.com/agbru/polymul/internal/cli"
)

const (
	// CurrentProfileVersion changes whenever the JSON layout does; profiles
	// of another version are ignored.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is created in the home directory.
	DefaultProfileFileName = ".polymul_calibration.json"
)

// Host fingerprints the machine a profile was measured on. Thresholds only
// transfer between hosts with the same core count, word size and ISA
// extensions.
type Host struct {
	CPUModel    string   `json:"cpu_model"`
	NumCPU      int      `json:"num_cpu"`
	GOARCH      string   `json:"goarch"`
	GOOS        string   `json:"goos"`
	GoVersion   string   `json:"go_version"`
	WordSize    int      `json:"word_size"`
	CPUFeatures []string `json:"cpu_features,omitempty"`
}

func currentHost() Host {
	return Host{
		CPUModel:    fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU()),
		NumCPU:      runtime.NumCPU(),
		GOARCH:      runtime.GOARCH,
		GOOS:        runtime.GOOS,
		GoVersion:   runtime.Version(),
		WordSize:    strconv.IntSize,
		CPUFeatures: CPUFeatures(),
	}
}

// compatible ignores the OS, the Go version and the model string, which do
// not change the relative cost of schoolbook and Karatsuba.
func (h Host) compatible(o Host) bool {
	return h.NumCPU == o.NumCPU &&
		h.GOARCH == o.GOARCH &&
		h.WordSize == o.WordSize &&
		slices.Equal(h.CPUFeatures, o.CPUFeatures)
}

// CPUFeatures lists the instruction set extensions that change the cost of
// ring arithmetic: wide multiplies and carry chains for the field and 256-bit
// rings, and SIMD units.
func CPUFeatures() []string {
	var features []string
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"avx2", cpu.X86.HasAVX2},
		{"avx512", cpu.X86.HasAVX512F && cpu.X86.HasAVX512DQ},
		{"bmi2", cpu.X86.HasBMI2},
		{"adx", cpu.X86.HasADX},
		{"asimd", cpu.ARM64.HasASIMD},
		{"sve", cpu.ARM64.HasSVE},
	} {
		if f.ok {
			features = append(features, f.name)
		}
	}
	return features
}

// CalibrationProfile is the persisted outcome of a calibration run.
type CalibrationProfile struct {
	Host
	// Ring is the coefficient ring the thresholds were measured on.
	Ring string `json:"ring"`

	OptimalThreshold         int `json:"optimal_threshold"`
	OptimalParallelThreshold int `json:"optimal_parallel_threshold"`
	// ThresholdsBySize is sorted by Size.
	ThresholdsBySize []SizeThreshold `json:"thresholds_by_size,omitempty"`

	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationTime string    `json:"calibration_time"`
	ProfileVersion  int       `json:"profile_version"`
}

// SizeThreshold is the fastest threshold measured at one operand size, with
// the mean times behind the choice.
type SizeThreshold struct {
	Size         int   `json:"size"`
	Threshold    int   `json:"threshold"`
	KaratsubaNs  int64 `json:"karatsuba_ns"`
	SchoolbookNs int64 `json:"schoolbook_ns"`
}

// Speedup is schoolbook time over Karatsuba time, 0 when unmeasured.
func (s SizeThreshold) Speedup() float64 {
	if s.KaratsubaNs <= 0 {
		return 0
	}
	return float64(s.SchoolbookNs) / float64(s.KaratsubaNs)
}

// NewProfile starts an empty profile for ringName on this host.
func NewProfile(ringName string) *CalibrationProfile {
	return &CalibrationProfile{
		Host:           currentHost(),
		Ring:           ringName,
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

// GetDefaultProfilePath is DefaultProfileFileName in the home directory, or
// in the working directory when there is no home.
func GetDefaultProfilePath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, DefaultProfileFileName)
	}
	return DefaultProfileFileName
}

func resolvePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}

// LoadProfile reads a profile; an empty path means the default location.
// The profile is not checked against this host, see IsValid.
func LoadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(resolvePath(path))
	if err != nil {
		return nil, fmt.Errorf("read calibration profile: %w", err)
	}
	p := new(CalibrationProfile)
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse calibration profile: %w", err)
	}
	return p, nil
}

// SaveProfile writes p as indented JSON, replacing any previous file
// atomically. An empty path means the default location.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode calibration profile: %w", err)
	}
	if err := cli.WriteFileAtomic(resolvePath(path), data, 0o600); err != nil {
		return fmt.Errorf("write calibration profile: %w", err)
	}
	return nil
}

// IsValid reports whether p can be trusted on this host: same format
// version, a compatible Host and a usable threshold.
func (p *CalibrationProfile) IsValid() bool {
	return p != nil &&
		p.ProfileVersion == CurrentProfileVersion &&
		p.Host.compatible(currentHost()) &&
		p.OptimalThreshold >= 1
}

// IsStale reports whether p was calibrated more than maxAge ago. A nil
// profile is always stale.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	return p == nil || time.Since(p.CalibratedAt) > maxAge
}

func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf("%s on %s (Threshold: %d, Parallel: %d, Sizes: %d, calibrated %s)",
		p.Ring, p.CPUModel, p.OptimalThreshold, p.OptimalParallelThreshold,
		len(p.ThresholdsBySize), p.CalibratedAt.Format(time.RFC3339))
}

// ThresholdForSize returns the threshold measured at the largest calibrated
// size not above n, falling back to OptimalThreshold. A nil profile gives 0.
func (p *CalibrationProfile) ThresholdForSize(n int) int {
	if p == nil {
		return 0
	}
	// ThresholdsBySize is sorted, so the last entry not above n wins.
	i, _ := slices.BinarySearchFunc(p.ThresholdsBySize, n+1, func(s SizeThreshold, target int) int {
		return s.Size - target
	})
	if i == 0 {
		return p.OptimalThreshold
	}
	return p.ThresholdsBySize[i-1].Threshold
}

// AddSizeThreshold inserts s, replacing an entry of the same size, and keeps
// ThresholdsBySize sorted.
func (p *CalibrationProfile) AddSizeThreshold(s SizeThreshold) {
	i, found := slices.BinarySearchFunc(p.ThresholdsBySize, s.Size, func(e SizeThreshold, size int) int {
		return e.Size - size
	})
	if found {
		p.ThresholdsBySize[i] = s
		return
	}
	p.ThresholdsBySize = slices.Insert(p.ThresholdsBySize, i, s)
}

// LoadOrCreateProfile returns the profile at path when it is valid for this
// host, reporting true, or a fresh profile for ringName and false.
func LoadOrCreateProfile(path, ringName string) (*CalibrationProfile, bool) {
	if p, err := LoadProfile(path); err == nil && p.IsValid() {
		return p, true
	}
	return NewProfile(ringName), false
}

// ProfileExists reports whether a file exists at path (or the default
// location when path is empty).
func ProfileExists(path string) bool {
	_, err := os.Stat(resolvePath(path))
	return err == nil
}
