package vault

import (
	"context"
	"fmt"

	vault "github.com/hashicorp/vault/api"
	auth "github.com/hashicorp/vault/api/auth/approle"
)

type Config struct {
	VaultAddress  string
	VaultRoleId   string
	VaultSecretId string
	// MountPath and SecretPath locate the KV v2 secret holding the store credentials.
	MountPath  string
	SecretPath string
}

type Service struct {
	Client *vault.Client
}

func NewClient(ctx context.Context, c Config) (*Service, error) {
	client, err := vault.NewClient(&vault.Config{
		Address: c.VaultAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	secretID := &auth.SecretID{FromString: c.VaultSecretId}
	appRoleAuth, err := auth.NewAppRoleAuth(
		c.VaultRoleId,
		secretID,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize approle auth method: %w", err)
	}

	authInfo, err := client.Auth().Login(ctx, appRoleAuth)
	if err != nil {
		return nil, err
	}
	if authInfo == nil {
		return nil, fmt.Errorf("no auth info was returned after login")
	}

	return &Service{Client: client}, nil
}

func (v *Service) GetSecrets(ctx context.Context, mountPath string, secretPath string) (map[string]string, error) {
	secretsData, err := v.Client.KVv2(mountPath).Get(ctx, secretPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read secrets: %w", err)
	}

	return stringSecrets(secretsData.Data), nil
}

func stringSecrets(data map[string]any) map[string]string {
	secrets := make(map[string]string, len(data))
	for key, value := range data {
		if s, ok := value.(string); ok {
			secrets[key] = s
		}
	}
	return secrets
}

type RedisCredentials struct {
	Username string
	Password string
}

// RedisCredentials reads the redis_username and redis_password keys of the configured secret.
func (v *Service) RedisCredentials(ctx context.Context, c Config) (RedisCredentials, error) {
	secrets, err := v.GetSecrets(ctx, c.MountPath, c.SecretPath)
	if err != nil {
		return RedisCredentials{}, err
	}
	return credentialsFrom(secrets)
}

func credentialsFrom(secrets map[string]string) (RedisCredentials, error) {
	password, ok := secrets["redis_password"]
	if !ok {
		return RedisCredentials{}, fmt.Errorf("secret has no redis_password")
	}
	return RedisCredentials{Username: secrets["redis_username"], Password: password}, nil
}
