package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pmdrill/internal/modules/coach/domain"
	"pmdrill/internal/modules/coach/dto"
	coachout "pmdrill/internal/modules/coach/port/out"
	"pmdrill/internal/platform/logging"

	hclog "github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaptinlin/jsonrepair"
)

const defaultCacheSize = 128

type CoachService struct {
	store      coachout.ManifestStore
	host       coachout.Host
	pluginName string
	analyses   *lru.Cache[string, domain.Analysis]
	logger     hclog.Logger
}

// NewCoachService routes requests to the plugin named pluginName. A
// non-positive cacheSize falls back to the default.
func NewCoachService(store coachout.ManifestStore, host coachout.Host, pluginName string, cacheSize int, logger hclog.Logger) (*CoachService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, domain.Analysis](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create analysis cache: %w", err)
	}
	return &CoachService{
		store:      store,
		host:       host,
		pluginName: pluginName,
		analyses:   cache,
		logger:     logging.OrNull(logger).Named("coach"),
	}, nil
}

func (s *CoachService) List(ctx context.Context) ([]dto.PluginInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PluginInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.PluginInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (s *CoachService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if _, err := s.host.GetMetadata(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *CoachService) RequestQuestion(ctx context.Context, req domain.QuestionRequest) (domain.Question, error) {
	manifest, err := s.runnableManifest(ctx, domain.CapabilityQuestion)
	if err != nil {
		return domain.Question{}, err
	}
	question, err := s.host.GenerateQuestion(ctx, manifest, req)
	if err != nil {
		return domain.Question{}, s.classify(err)
	}
	if err := question.Validate(); err != nil {
		return domain.Question{}, err
	}
	s.logger.Debug("generated question", "id", question.ID, "category", question.Category)
	return question, nil
}

// AnalyzeResponse returns a cached analysis when the same answer to the
// same question was scored before. The bool reports a cache hit.
func (s *CoachService) AnalyzeResponse(ctx context.Context, req domain.AnalysisRequest) (domain.Analysis, bool, error) {
	key := req.Key()
	if cached, ok := s.analyses.Get(key); ok {
		return cached, true, nil
	}
	manifest, err := s.runnableManifest(ctx, domain.CapabilityAnalyze)
	if err != nil {
		return domain.Analysis{}, false, err
	}
	raw, err := s.host.Analyze(ctx, manifest, req)
	if err != nil {
		return domain.Analysis{}, false, s.classify(err)
	}
	analysis, err := s.decodeAnalysis(raw)
	if err != nil {
		return domain.Analysis{}, false, err
	}
	s.analyses.Add(key, analysis)
	return analysis, false, nil
}

func (s *CoachService) decodeAnalysis(raw string) (domain.Analysis, error) {
	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err == nil {
		return analysis.Normalize(), nil
	}
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %w", domain.ErrMalformedOutput, err)
	}
	if err := json.Unmarshal([]byte(repaired), &analysis); err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %w", domain.ErrMalformedOutput, err)
	}
	s.logger.Warn("repaired malformed analysis output", "raw_bytes", len(raw))
	return analysis.Normalize(), nil
}

func (s *CoachService) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", domain.ErrPluginTimeout, s.pluginName)
	}
	return err
}

func (s *CoachService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate plugin name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *CoachService) runnableManifest(ctx context.Context, requiredCapability domain.Capability) (domain.Manifest, error) {
	if s.host == nil {
		return domain.Manifest{}, fmt.Errorf("coach host is not configured")
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	for _, manifest := range manifests {
		if manifest.Name != s.pluginName {
			continue
		}
		if !manifest.Enabled {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrPluginDisabled, s.pluginName)
		}
		if !manifest.HasCapability(requiredCapability) {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrCapabilityMissing, requiredCapability)
		}
		if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
			return domain.Manifest{}, err
		}
		return manifest, nil
	}
	return domain.Manifest{}, fmt.Errorf("%w: %q", domain.ErrPluginNotFound, s.pluginName)
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
