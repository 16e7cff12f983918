package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/learnhub/internal/common"
	"github.com/dmitrijs2005/learnhub/internal/dbx"
	"github.com/dmitrijs2005/learnhub/internal/logging"
	sc "github.com/dmitrijs2005/learnhub/internal/server/config"
	"github.com/dmitrijs2005/learnhub/internal/server/store"
	"github.com/google/uuid"
)

// AvatarUploadExpiry bounds how long a presigned upload URL stays usable.
const AvatarUploadExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	newObjectID = func() string { return uuid.NewString() }
)

// AvatarUpload is handed to a client that wants to change its profile
// picture: it PUTs the image to UploadURL and then passes PublicURL to
// IdentityService.Update as ProfilePictureURL.
type AvatarUpload struct {
	Key       string
	UploadURL string
	PublicURL string
	ExpiresAt time.Time
}

// AvatarService issues presigned S3 uploads for profile pictures.
type AvatarService struct {
	store  store.Store
	config *sc.Config
	log    logging.Logger
	now    func() time.Time
}

func NewAvatarService(s store.Store, config *sc.Config, log logging.Logger) *AvatarService {
	if log == nil {
		log = logging.Nop{}
	}
	return &AvatarService{
		store:  s,
		config: config,
		log:    log.With("module", "avatar"),
		now:    time.Now,
	}
}

// AvatarKey is the object key for a new picture of the given user.
func AvatarKey(userID int64) string {
	return "avatars/" + strconv.FormatInt(userID, 10) + "/" + newObjectID()
}

func (s *AvatarService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a presigned PUT for a new picture of userID.
// The user must exist. The lookup is bounded by the configured StoreTimeout.
func (s *AvatarService) PresignUpload(ctx context.Context, userID int64) (*AvatarUpload, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, s.fail(ctx, err)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, s.fail(ctx, fmt.Errorf("s3 client: %w", err))
	}

	bucket := s.config.S3Bucket
	key := AvatarKey(userID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(AvatarUploadExpiry))
	if err != nil {
		return nil, s.fail(ctx, fmt.Errorf("presign put: %w", err))
	}

	publicURL, err := url.JoinPath(s.config.S3BaseEndpoint, bucket, key)
	if err != nil {
		return nil, s.fail(ctx, fmt.Errorf("public url: %w", err))
	}

	return &AvatarUpload{
		Key:       key,
		UploadURL: req.URL,
		PublicURL: publicURL,
		ExpiresAt: s.now().Add(AvatarUploadExpiry),
	}, nil
}

func (s *AvatarService) checkUser(ctx context.Context, userID int64) error {
	if s.config.StoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.StoreTimeout)
		defer cancel()
	}
	_, err := s.store.FindUserByID(ctx, userID)
	return err
}

func (s *AvatarService) fail(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return ErrUserNotFound
	case dbx.IsTimeout(err):
		s.log.Warn(ctx, "avatar upload timed out", "error", err)
		return common.ErrTransient
	default:
		s.log.Error(ctx, "avatar upload failed", "error", err)
		return common.ErrorInternal
	}
}
