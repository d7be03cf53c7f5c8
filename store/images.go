package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nfnt/resize"
)

const (
	maxImageSize      = 5 * 1024 * 1024
	compressThreshold = 100 * 1024
	mainImageWidth    = 800
	previewSize       = 300
)

var (
	ErrImageTooLarge   = errors.New("file size exceeds the 5MB limit")
	ErrUnsupportedType = errors.New("unsupported file format")
)

// ImageStore keeps uploaded pictures and returns their public URLs.
type ImageStore interface {
	SaveImage(ctx context.Context, file *multipart.FileHeader, key string) (mainURL, previewURL string, err error)
	RemoveImage(ctx context.Context, url string) error
}

// S3Images stores images in an S3 compatible bucket served behind a CDN domain.
type S3Images struct {
	client    *minio.Client
	bucket    string
	cdnDomain string
}

func NewS3Images(endpoint, accessKey, secretKey, bucket, cdnDomain string) (*S3Images, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	if cdnDomain == "" {
		cdnDomain = endpoint + "/" + bucket
	}
	return &S3Images{client: client, bucket: bucket, cdnDomain: cdnDomain}, nil
}

// PreparedImage is an upload ready to be stored: the main picture (resized
// when large) and a square-bounded JPEG preview.
type PreparedImage struct {
	Main        []byte
	MainType    string
	Preview     []byte
	PreviewType string
}

// PrepareImage decodes data and builds the main and preview renditions.
func PrepareImage(data []byte, contentType string) (PreparedImage, error) {
	if len(data) > maxImageSize {
		return PreparedImage{}, ErrImageTooLarge
	}

	var (
		img image.Image
		err error
	)
	switch contentType {
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	default:
		return PreparedImage{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if err != nil {
		return PreparedImage{}, fmt.Errorf("failed to decode image: %w", err)
	}

	out := PreparedImage{Main: data, MainType: contentType, PreviewType: "image/jpeg"}
	if len(data) >= compressThreshold {
		var buf bytes.Buffer
		resized := resize.Resize(mainImageWidth, 0, img, resize.Lanczos3)
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 80}); err != nil {
			return PreparedImage{}, fmt.Errorf("failed to encode resized image: %w", err)
		}
		out.Main = buf.Bytes()
		out.MainType = "image/jpeg"
	}

	var preview bytes.Buffer
	thumb := resize.Thumbnail(previewSize, previewSize, img, resize.Lanczos3)
	if err := jpeg.Encode(&preview, thumb, &jpeg.Options{Quality: 75}); err != nil {
		return PreparedImage{}, fmt.Errorf("failed to encode preview image: %w", err)
	}
	out.Preview = preview.Bytes()
	return out, nil
}

func extensionFor(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}

func (s *S3Images) SaveImage(ctx context.Context, file *multipart.FileHeader, key string) (string, string, error) {
	if file.Size > maxImageSize {
		return "", "", ErrImageTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImageSize+1))
	if err != nil {
		return "", "", fmt.Errorf("failed to read image data: %w", err)
	}

	prepared, err := PrepareImage(data, file.Header.Get("Content-Type"))
	if err != nil {
		return "", "", err
	}

	mainName := key + extensionFor(prepared.MainType)
	previewName := key + "_preview.jpg"

	if err := s.put(ctx, mainName, prepared.Main, prepared.MainType); err != nil {
		return "", "", fmt.Errorf("failed to upload main image to S3: %w", err)
	}
	if err := s.put(ctx, previewName, prepared.Preview, prepared.PreviewType); err != nil {
		return "", "", fmt.Errorf("failed to upload preview image to S3: %w", err)
	}
	return s.url(mainName), s.url(previewName), nil
}

func (s *S3Images) put(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *S3Images) url(name string) string {
	return fmt.Sprintf("https://%s/%s", s.cdnDomain, name)
}

// RemoveImage deletes an object previously returned by SaveImage. URLs from
// other hosts are ignored.
func (s *S3Images) RemoveImage(ctx context.Context, url string) error {
	prefix := fmt.Sprintf("https://%s/", s.cdnDomain)
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, strings.TrimPrefix(url, prefix), minio.RemoveObjectOptions{})
}
