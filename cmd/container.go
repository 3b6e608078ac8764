// cmd/container.go
//
// Composition root. Owns shared infrastructure (file storage, AWS clients)
// and composes the campaign and suggestion containers.
package main

import (
	"context"

	"github.com/Abraxas-365/certmailer/pkg/campaign/campaigncontainer"
	"github.com/Abraxas-365/certmailer/pkg/config"
	"github.com/Abraxas-365/certmailer/pkg/fsx"
	"github.com/Abraxas-365/certmailer/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/certmailer/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/suggest/suggestcontainer"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// Container holds shared infrastructure and composed module containers.
type Container struct {
	Config *config.Config

	FileSystem    fsx.FileSystem
	S3Client      *s3.Client
	SESClient     *ses.Client
	BedrockClient *bedrockruntime.Client

	Campaign *campaigncontainer.Container
	Suggest  *suggestcontainer.Container
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initModules()

	logx.Info("Application container initialized")
	return c
}

func (c *Container) initInfrastructure() {
	c.initFileStorage()

	if c.Config.Notifx.Provider == config.ProviderSES {
		awsCfg := c.loadAWS(c.Config.Notifx.AWSRegion)
		c.SESClient = ses.NewFromConfig(awsCfg)
		logx.Infof("  SES client configured (region: %s)", c.Config.Notifx.AWSRegion)
	}

	if c.Config.Suggest.Provider == config.SuggestBedrock {
		c.BedrockClient = bedrockruntime.NewFromConfig(c.loadAWS(c.Config.Suggest.AWSRegion))
		logx.Infof("  Bedrock runtime client configured (region: %s)", c.Config.Suggest.AWSRegion)
	}
}

func (c *Container) initFileStorage() {
	st := c.Config.Storage

	switch st.Mode {
	case "s3":
		c.S3Client = s3.NewFromConfig(c.loadAWS(st.AWSRegion))
		c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, st.Bucket, st.Prefix)
		logx.Infof("  S3 file system configured (bucket: %s, region: %s)", st.Bucket, st.AWSRegion)

	default:
		localFS, err := fsxlocal.NewLocalFileSystem(st.UploadDir)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("  Local file system configured (path: %s)", localFS.GetBasePath())
	}
}

func (c *Container) loadAWS(region string) aws.Config {
	cfg, err := awsConfig.LoadDefaultConfig(context.TODO(), awsConfig.WithRegion(region))
	if err != nil {
		logx.Fatalf("Unable to load AWS SDK config: %v", err)
	}
	return cfg
}

func (c *Container) initModules() {
	logx.Info("Initializing modules...")

	deps := campaigncontainer.Deps{
		Cfg:     c.Config,
		Storage: c.FileSystem,
	}
	if c.SESClient != nil {
		deps.SES = c.SESClient
	}
	c.Campaign = campaigncontainer.New(deps)

	suggestDeps := suggestcontainer.Deps{Cfg: c.Config}
	if c.BedrockClient != nil {
		suggestDeps.Bedrock = c.BedrockClient
	}
	c.Suggest = suggestcontainer.New(suggestDeps)
}

// Cleanup releases resources. SMTP sessions are per run and closed by the
// runner, so there is nothing long-lived to close yet.
func (c *Container) Cleanup() {
	logx.Info("Cleaning up resources...")
}
