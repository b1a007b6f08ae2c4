package store

import (
	"context"
	"fmt"
	"net"
	"time"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/vvka-141/dbseed/pkg/dbseed"
)

// AzurePostgreSQLScope is the OAuth scope Entra ID issues PostgreSQL tokens for.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"

// rdsTokenLifetime is how long an RDS IAM token stays valid.
const rdsTokenLifetime = 15 * time.Minute

// TokenProvider acquires a short-lived token that is sent as the PostgreSQL password.
type TokenProvider interface {
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for logs. It never includes secrets.
	String() string
}

// AzureTokenProvider acquires Entra ID tokens for Azure Database for PostgreSQL.
type AzureTokenProvider struct {
	credential  azcore.TokenCredential
	description string
}

// NewAzureTokenProvider uses a service principal when tenantID, clientID and
// clientSecret are all set, and the DefaultAzureCredential chain when none are.
func NewAzureTokenProvider(tenantID, clientID, clientSecret string) (*AzureTokenProvider, error) {
	if tenantID == "" && clientID == "" && clientSecret == "" {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure default credential: %w", err)
		}
		return &AzureTokenProvider{credential: cred, description: "AzureDefaultCredential"}, nil
	}

	if tenantID == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: azure service principal requires tenant ID, client ID and client secret", dbseed.ErrInvalidConfig)
	}
	cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Azure credential: %v", dbseed.ErrInvalidConfig, err)
	}
	return &AzureTokenProvider{
		credential:  cred,
		description: fmt.Sprintf("AzureServicePrincipal(tenant=%s, client=%s)", tenantID, clientID),
	}, nil
}

func (p *AzureTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{AzurePostgreSQLScope},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("azure token acquisition failed: %w", err)
	}
	return token.Token, token.ExpiresOn, nil
}

func (p *AzureTokenProvider) String() string {
	return p.description
}

// AWSTokenProvider builds RDS IAM authentication tokens. Tokens are signed
// locally with credentials from the default AWS chain.
type AWSTokenProvider struct {
	endpoint    string
	region      string
	username    string
	credentials aws.CredentialsProvider
}

// NewAWSTokenProvider creates a provider for endpoint (host:port) and the
// database user configured for IAM authentication.
func NewAWSTokenProvider(endpoint, region, username string) (*AWSTokenProvider, error) {
	switch {
	case endpoint == "":
		return nil, fmt.Errorf("%w: AWS IAM auth requires an endpoint (host:port)", dbseed.ErrInvalidConfig)
	case region == "":
		return nil, fmt.Errorf("%w: AWS IAM auth requires a region (use --aws-region or $AWS_REGION)", dbseed.ErrInvalidConfig)
	case username == "":
		return nil, fmt.Errorf("%w: AWS IAM auth requires a database user in the connection string", dbseed.ErrInvalidConfig)
	}
	return &AWSTokenProvider{endpoint: endpoint, region: region, username: username}, nil
}

func (p *AWSTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	creds := p.credentials
	if creds == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(p.region))
		if err != nil {
			return "", time.Time{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		creds = cfg.Credentials
	}

	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, creds)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build RDS auth token: %w", err)
	}
	return token, time.Now().Add(rdsTokenLifetime), nil
}

func (p *AWSTokenProvider) String() string {
	return fmt.Sprintf("AWSIAMTokenProvider(endpoint=%s, region=%s, user=%s)", p.endpoint, p.region, p.username)
}

// cloudSQLDialer is the part of *cloudsqlconn.Dialer the connector uses.
type cloudSQLDialer interface {
	Dial(ctx context.Context, instance string, opts ...cloudsqlconn.DialOption) (net.Conn, error)
	Close() error
}

func newCloudSQLDialer(ctx context.Context) (cloudSQLDialer, error) {
	return cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
}
