package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/umuhuza/umuhuza_api/internal/config"
	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

// MaxUploadBytes caps a single product image.
const MaxUploadBytes = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ObjectPutter is the part of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ModerationDetector is the part of the Rekognition client used to screen images.
type ModerationDetector interface {
	DetectModerationLabels(ctx context.Context, in *rekognition.DetectModerationLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectModerationLabelsOutput, error)
}

// UploadResult is returned for every stored file.
type UploadResult struct {
	URL string `json:"fileUrl"`
	Key string `json:"key"`
}

// UploadService stores product images in S3 after an optional moderation check.
type UploadService struct {
	objects   ObjectPutter
	moderator ModerationDetector
	bucket    string
	baseURL   string
	threshold float32
}

// NewUploadService wires the AWS clients from configuration. Static
// credentials are used when present, otherwise the default chain applies.
func NewUploadService(ctx context.Context, s3cfg config.S3Config, awsCfg config.AWSConfig) (*UploadService, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(s3cfg.Region)}
	if s3cfg.AccessKeyID != "" && s3cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3cfg.AccessKeyID, s3cfg.SecretAccessKey, "")))
	}
	base, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	objects := s3.NewFromConfig(base, func(o *s3.Options) {
		if s3cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	var moderator ModerationDetector
	if awsCfg.ModerationEnabled {
		moderator = rekognition.NewFromConfig(base, func(o *rekognition.Options) {
			o.Region = awsCfg.RekognitionRegion
		})
	}

	return newUploadService(objects, moderator, s3cfg, awsCfg.ModerationThreshold), nil
}

func newUploadService(objects ObjectPutter, moderator ModerationDetector, s3cfg config.S3Config, threshold float64) *UploadService {
	baseURL := strings.TrimRight(s3cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s3cfg.Bucket, s3cfg.Region)
	}
	return &UploadService{
		objects:   objects,
		moderator: moderator,
		bucket:    s3cfg.Bucket,
		baseURL:   baseURL,
		threshold: float32(threshold),
	}
}

// Upload stores one image for user and returns its public URL.
func (s *UploadService) Upload(ctx context.Context, user *models.User, filename string, r io.Reader) (*UploadResult, error) {
	if user == nil {
		return nil, utils.ErrLoginRequired
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", utils.ErrValidation)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: file larger than %d MB", utils.ErrValidation, MaxUploadBytes>>20)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a supported image type", utils.ErrValidation, contentType)
	}

	if err := s.screen(ctx, data); err != nil {
		return nil, err
	}

	key := path.Join("products", user.ID, uuid.NewString()+ext)
	_, err = s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"original-name": path.Base(filename)},
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload to S3")
		return nil, fmt.Errorf("failed to upload: %w", err)
	}

	log.Info().Str("key", key).Str("user_id", user.ID).Msg("Successfully uploaded to S3")
	return &UploadResult{URL: s.baseURL + "/" + key, Key: key}, nil
}

// screen rejects images Rekognition flags above the threshold.
func (s *UploadService) screen(ctx context.Context, data []byte) error {
	if s.moderator == nil {
		return nil
	}
	out, err := s.moderator.DetectModerationLabels(ctx, &rekognition.DetectModerationLabelsInput{
		Image:         &types.Image{Bytes: data},
		MinConfidence: aws.Float32(s.threshold),
	})
	if err != nil {
		log.Error().Err(err).Msg("AWS DetectModerationLabels failed")
		return fmt.Errorf("moderation check: %w", err)
	}
	if len(out.ModerationLabels) == 0 {
		return nil
	}

	labels := make([]string, 0, len(out.ModerationLabels))
	for _, l := range out.ModerationLabels {
		labels = append(labels, aws.ToString(l.Name))
	}
	log.Warn().Strs("labels", labels).Msg("Image rejected by moderation")
	return fmt.Errorf("%w: %s", utils.ErrImageRejected, strings.Join(labels, ", "))
}
