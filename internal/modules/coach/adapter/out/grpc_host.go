package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	coachrpc "pmdrill/internal/modules/coach/adapter/out/rpc"
	"pmdrill/internal/modules/coach/domain"
	coachout "pmdrill/internal/modules/coach/port/out"
	"pmdrill/internal/platform/logging"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout   = 3 * time.Second
	defaultCallTimeout    = 5 * time.Second
	defaultAnalyzeTimeout = 15 * time.Second
)

// GRPCHost launches the plugin binary for every call and kills it after.
type GRPCHost struct {
	logger hclog.Logger
}

func NewGRPCHost(logger hclog.Logger) coachout.Host {
	return &GRPCHost{logger: logging.OrNull(logger).Named("coach-host")}
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities}, nil
}

func (h *GRPCHost) GenerateQuestion(ctx context.Context, manifest domain.Manifest, req domain.QuestionRequest) (domain.Question, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return domain.Question{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	response, err := client.GenerateQuestion(callCtx, &coachrpc.QuestionRequest{
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Topic:      req.Topic,
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.Question{}, fmt.Errorf("%w: generate question", domain.ErrPluginTimeout)
		}
		return domain.Question{}, fmt.Errorf("generate question: %w", err)
	}
	question := domain.Question{
		ID:         response.ID,
		Prompt:     response.Prompt,
		Category:   response.Category,
		Difficulty: response.Difficulty,
		Context:    response.Context,
		Framework:  response.Framework,
		Tags:       response.Tags,
		FollowUps:  response.FollowUps,
	}
	if response.EstimatedMinutes > 0 {
		minutes := int(response.EstimatedMinutes)
		question.EstimatedMinutes = &minutes
	}
	return question, nil
}

func (h *GRPCHost) Analyze(ctx context.Context, manifest domain.Manifest, req domain.AnalysisRequest) (string, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return "", err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultAnalyzeTimeout)
	defer cancel()
	response, err := client.AnalyzeResponse(callCtx, &coachrpc.AnalyzeRequest{
		QuestionID: req.QuestionID,
		Prompt:     req.Prompt,
		Category:   req.Category,
		Framework:  req.Framework,
		Answer:     req.Answer,
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: analyze %s", domain.ErrPluginTimeout, req.QuestionID)
		}
		return "", fmt.Errorf("analyze response: %w", err)
	}
	return response.AnalysisJSON, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest, startTimeout time.Duration) (coachrpc.CoachClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  coachrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          coachrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           h.logger.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(coachrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(coachrpc.CoachClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
