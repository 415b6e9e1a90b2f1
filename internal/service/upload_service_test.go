package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/umuhuza/umuhuza_api/internal/config"
	"github.com/umuhuza/umuhuza_api/internal/models"
	"github.com/umuhuza/umuhuza_api/internal/utils"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

type fakeModerator struct {
	labels []string
	calls  int
}

func (f *fakeModerator) DetectModerationLabels(ctx context.Context, in *rekognition.DetectModerationLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectModerationLabelsOutput, error) {
	f.calls++
	out := &rekognition.DetectModerationLabelsOutput{}
	for _, l := range f.labels {
		out.ModerationLabels = append(out.ModerationLabels, types.ModerationLabel{Name: aws.String(l)})
	}
	return out, nil
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

var testS3 = config.S3Config{Bucket: "umuhuza-products", Region: "af-south-1"}

func TestUploadStoresImage(t *testing.T) {
	putter := &fakePutter{}
	moderator := &fakeModerator{}
	svc := newUploadService(putter, moderator, testS3, 80)

	res, err := svc.Upload(context.Background(), &models.User{ID: "u1"}, "house.png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(res.Key, "products/u1/") || !strings.HasSuffix(res.Key, ".png") {
		t.Errorf("key = %q", res.Key)
	}
	if res.URL != "https://umuhuza-products.s3.af-south-1.amazonaws.com/"+res.Key {
		t.Errorf("url = %q", res.URL)
	}
	if len(putter.inputs) != 1 || aws.ToString(putter.inputs[0].ContentType) != "image/png" {
		t.Fatalf("put inputs = %+v", putter.inputs)
	}
	if !bytes.Equal(putter.bodies[0], pngBytes) {
		t.Error("stored body differs from upload")
	}
	if moderator.calls != 1 {
		t.Errorf("moderation calls = %d, want 1", moderator.calls)
	}
}

func TestUploadPublicBaseURL(t *testing.T) {
	cfg := testS3
	cfg.PublicBaseURL = "https://cdn.umuhuza.rw/"
	svc := newUploadService(&fakePutter{}, nil, cfg, 80)

	res, err := svc.Upload(context.Background(), &models.User{ID: "u1"}, "a.png", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(res.URL, "https://cdn.umuhuza.rw/products/") {
		t.Errorf("url = %q", res.URL)
	}
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name      string
		user      *models.User
		body      []byte
		moderator *fakeModerator
		want      error
	}{
		{"anonymous", nil, pngBytes, nil, utils.ErrLoginRequired},
		{"empty", &models.User{ID: "u1"}, nil, nil, utils.ErrValidation},
		{"not an image", &models.User{ID: "u1"}, []byte("%PDF-1.4 hello"), nil, utils.ErrValidation},
		{"too large", &models.User{ID: "u1"}, append(append([]byte{}, pngBytes...), make([]byte, MaxUploadBytes)...), nil, utils.ErrValidation},
		{"flagged", &models.User{ID: "u1"}, pngBytes, &fakeModerator{labels: []string{"Violence"}}, utils.ErrImageRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			putter := &fakePutter{}
			var moderator ModerationDetector
			if tt.moderator != nil {
				moderator = tt.moderator
			}
			svc := newUploadService(putter, moderator, testS3, 80)
			_, err := svc.Upload(context.Background(), tt.user, "f", bytes.NewReader(tt.body))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(putter.inputs) != 0 {
				t.Error("rejected upload reached S3")
			}
		})
	}
}
