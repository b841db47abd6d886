package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/clinicai/clinicai-api/config"

	"github.com/sirupsen/logrus"
)

// ErrAdviceUnavailable is returned for any Advice Service failure. Callers
// must degrade with placeholder content, never block the flow they decorate.
var ErrAdviceUnavailable = errors.New("advice service unavailable")

// SpecialtySuggestion is a triage suggestion derived from free-text symptoms
type SpecialtySuggestion struct {
	Specialty string `json:"specialty"`
	Reason    string `json:"reason"`
	RiskLevel string `json:"riskLevel"`
}

// ICD10Suggestion is a diagnosis code suggestion for the record form
type ICD10Suggestion struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// AdviceService is the external AI text-generation collaborator. Every call
// is a fallible network call.
type AdviceService interface {
	SuggestSpecialties(ctx context.Context, symptoms string) ([]SpecialtySuggestion, error)
	SummarizeTranscript(ctx context.Context, transcript string) (string, error)
	SuggestICD10(ctx context.Context, summary string) ([]ICD10Suggestion, error)
}

type adviceService struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func NewAdviceService(cfg config.AdviceConfig, log *logrus.Logger) AdviceService {
	return &adviceService{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		log:     log,
	}
}

func (s *adviceService) SuggestSpecialties(ctx context.Context, symptoms string) ([]SpecialtySuggestion, error) {
	var suggestions []SpecialtySuggestion
	err := s.post(ctx, "/suggest-specialties", map[string]string{"symptoms": symptoms}, &suggestions)
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (s *adviceService) SummarizeTranscript(ctx context.Context, transcript string) (string, error) {
	var result struct {
		Summary string `json:"summary"`
	}
	err := s.post(ctx, "/summarize", map[string]string{"transcript": transcript}, &result)
	if err != nil {
		return "", err
	}
	return result.Summary, nil
}

func (s *adviceService) SuggestICD10(ctx context.Context, summary string) ([]ICD10Suggestion, error) {
	var suggestions []ICD10Suggestion
	err := s.post(ctx, "/icd10", map[string]string{"summary": summary}, &suggestions)
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (s *adviceService) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warnf("Advice service call %s failed: %+v", path, err)
		return fmt.Errorf("%w: %v", ErrAdviceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		s.log.Warnf("Advice service call %s returned HTTP %d: %s", path, resp.StatusCode, string(raw))
		return fmt.Errorf("%w: HTTP %d", ErrAdviceUnavailable, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
