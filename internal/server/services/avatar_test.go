package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/learnhub/internal/common"
	sc "github.com/dmitrijs2005/learnhub/internal/server/config"
	"github.com/dmitrijs2005/learnhub/internal/server/models"
	"github.com/dmitrijs2005/learnhub/internal/server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func avatarConfig() *sc.Config {
	return &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
		S3Bucket:       "avatars",
	}
}

// stubAWS replaces the AWS seams for the duration of the test.
func stubAWS(t *testing.T, put func(in *s3.PutObjectInput, opts s3.PresignOptions) (*v4.PresignedHTTPRequest, error)) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origID := newObjectID
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		newObjectID = origID
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var opts s3.PresignOptions
		for _, fn := range optFns {
			fn(&opts)
		}
		return put(in, opts)
	}
	newObjectID = func() string { return "0000-fixed" }
}

func newAvatarFixture(t *testing.T) (*AvatarService, *models.User) {
	t.Helper()
	mem := store.NewMemoryStore(store.DefaultRoles()...)
	u := &models.User{Username: "ana", EmailAddress: "ana@x.com", PasswordHash: "h", RoleID: common.RoleUser}
	require.NoError(t, mem.SaveUser(context.Background(), u))

	svc := NewAvatarService(mem, avatarConfig(), nil)
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }
	return svc, u
}

func TestAvatarKey(t *testing.T) {
	origID := newObjectID
	t.Cleanup(func() { newObjectID = origID })
	newObjectID = func() string { return "abc" }

	assert.Equal(t, "avatars/42/abc", AvatarKey(42))
}

func TestAvatarKey_Unique(t *testing.T) {
	assert.NotEqual(t, AvatarKey(1), AvatarKey(1))
}

func TestPresignUpload_Success(t *testing.T) {
	svc, u := newAvatarFixture(t)

	var gotBucket, gotKey string
	var gotExpiry time.Duration
	stubAWS(t, func(in *s3.PutObjectInput, opts s3.PresignOptions) (*v4.PresignedHTTPRequest, error) {
		gotBucket, gotKey = *in.Bucket, *in.Key
		gotExpiry = opts.Expires
		return &v4.PresignedHTTPRequest{URL: "http://signed/put", Method: http.MethodPut}, nil
	})

	up, err := svc.PresignUpload(context.Background(), u.ID)
	require.NoError(t, err)

	assert.Equal(t, "avatars", gotBucket)
	assert.Equal(t, "avatars/1/0000-fixed", gotKey)
	assert.Equal(t, AvatarUploadExpiry, gotExpiry)
	assert.Equal(t, "http://signed/put", up.UploadURL)
	assert.Equal(t, "http://127.0.0.1:9000/avatars/avatars/1/0000-fixed", up.PublicURL)
	assert.Equal(t, time.Date(2025, 1, 1, 12, 15, 0, 0, time.UTC), up.ExpiresAt)
}

func TestPresignUpload_UnknownUser(t *testing.T) {
	svc, _ := newAvatarFixture(t)
	called := false
	stubAWS(t, func(*s3.PutObjectInput, s3.PresignOptions) (*v4.PresignedHTTPRequest, error) {
		called = true
		return &v4.PresignedHTTPRequest{}, nil
	})

	_, err := svc.PresignUpload(context.Background(), 999)
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, called)
}

// stalledStore never answers a lookup before the caller's deadline.
type stalledStore struct {
	*store.MemoryStore
}

func (s *stalledStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestPresignUpload_StoreTimeout(t *testing.T) {
	called := false
	stubAWS(t, func(*s3.PutObjectInput, s3.PresignOptions) (*v4.PresignedHTTPRequest, error) {
		called = true
		return &v4.PresignedHTTPRequest{}, nil
	})
	c := avatarConfig()
	c.StoreTimeout = 10 * time.Millisecond
	svc := NewAvatarService(&stalledStore{store.NewMemoryStore(store.DefaultRoles()...)}, c, nil)

	_, err := svc.PresignUpload(context.Background(), 1)
	require.ErrorIs(t, err, common.ErrTransient)
	assert.False(t, called)
}

func TestPresignUpload_PresignError(t *testing.T) {
	svc, u := newAvatarFixture(t)
	stubAWS(t, func(*s3.PutObjectInput, s3.PresignOptions) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("put-fail")
	})

	_, err := svc.PresignUpload(context.Background(), u.ID)
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestGetPresignClient_AppliesSettings(t *testing.T) {
	svc, _ := newAvatarFixture(t)
	stubAWS(t, nil)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	pc, err := svc.getPresignClient(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pc)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000/", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = svc.getPresignClient(context.Background())
	assert.EqualError(t, err, "load-fail")

	_, err = svc.PresignUpload(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrorInternal)
}
