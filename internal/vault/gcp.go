package vault

import (
	"context"
	"fmt"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/awnumar/memguard"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GCP — доступ к Google Cloud Secret Manager.
// Вызовы идут через Circuit Breaker: после серии отказов хранилища
// перестаем его дергать и сразу отвечаем ошибкой.
type GCP struct {
	client *secretmanager.Client
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewGCP создает клиента. Пустой credentialsFile означает Application Default Credentials.
func NewGCP(ctx context.Context, credentialsFile string, logger *zap.Logger) (*GCP, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}

	// Настройка предохранителя
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "secret-manager",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     30 * time.Second, // Время, через которое CB попробует "закрыться"
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &GCP{
		client: client,
		cb:     cb,
		logger: logger.Named("vault"),
	}, nil
}

// Access читает версию секрета по координатам (project, secret, version).
// Значение возвращается в memguard-анклаве: в памяти оно зашифровано,
// открывается только на время доставки.
func (g *GCP) Access(ctx context.Context, project, secret, version string) (*memguard.Enclave, error) {
	name := ResourceName(project, secret, version)
	g.logger.Debug("accessing secret version", zap.String("name", name))

	result, err := g.cb.Execute(func() (interface{}, error) {
		return g.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
			Name: name,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("access secret version %s: %w", name, err)
	}

	resp := result.(*secretmanagerpb.AccessSecretVersionResponse)
	if resp.Payload == nil || resp.Payload.Data == nil {
		return nil, fmt.Errorf("secret %s has no data", name)
	}

	// NewEnclave затирает исходный буфер после копирования
	return memguard.NewEnclave(resp.Payload.Data), nil
}

// Close освобождает клиента
func (g *GCP) Close() error {
	return g.client.Close()
}

// ResourceName собирает полное имя версии секрета
func ResourceName(project, secret, version string) string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/%s", project, secret, version)
}

// Suggestion подбирает подсказку по классу ошибки GCP — текст уходит
// пользователю вместе с ошибкой, чтобы тот мог починить запрос сам.
func Suggestion(err error) string {
	switch status.Code(err) {
	case codes.PermissionDenied:
		return "Check IAM permissions: secretmanager.secrets.get, secretmanager.versions.access"
	case codes.NotFound:
		return "Verify the secret name and project ID. Check that the secret exists"
	case codes.Unauthenticated:
		return "Check authentication: set GOOGLE_APPLICATION_CREDENTIALS or run 'gcloud auth application-default login'"
	case codes.InvalidArgument:
		return "Check the secret name format and version specification"
	case codes.ResourceExhausted:
		return "Request was throttled. Try again later"
	default:
		return "Check GCP credentials, project ID, and IAM permissions for Secret Manager"
	}
}
