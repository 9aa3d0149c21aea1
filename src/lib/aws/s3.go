package aws

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"time"

	appconfig "rifa/src/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MaxProofSize is the upload cap enforced by the caller before the blob
// reaches the store.
const MaxProofSize = 10 << 20

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func GetS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := s3.NewFromConfig(cfg)
	return svc
}

// SanitizeProofName strips characters that are unsafe in object keys.
func SanitizeProofName(name string) string {
	return unsafeKeyChars.ReplaceAllString(name, "_")
}

// ProofObjectKey builds a collision-resistant key for an uploaded proof.
func ProofObjectKey(filename string) string {
	return fmt.Sprintf("proof_%d_%s", time.Now().UnixMilli(), SanitizeProofName(filename))
}

// S3UploadProof uploads a payment-proof image and returns its public URL.
// Size must already be validated against MaxProofSize by the caller.
func S3UploadProof(ctx context.Context, key string, contentType string, body io.Reader) (*string, error) {
	proofsBucket := appconfig.ProofsBucket()
	client := GetS3Client()
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(proofsBucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("Could not put object to S3 bucket: %s\n", err.Error())
		return nil, err
	}
	err = s3.NewObjectExistsWaiter(client).Wait(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(proofsBucket),
		Key:    aws.String(key),
	}, time.Minute)
	if err != nil {
		log.Printf("Failed attempt to wait for object %s to exist: %s\n", key, err.Error())
		return nil, err
	}
	log.Printf("Added object '%s' to bucket '%s'", key, proofsBucket)
	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", proofsBucket, key)
	return &url, nil
}
