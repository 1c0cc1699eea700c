package sync

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Destination_Write(t *testing.T) {
	fake := &fakeS3{}
	dest := &S3Destination{client: fake, bucket: "backups", key: "configs/backup.jsonl"}

	data := []byte(`{"type":"header"}` + "\n")
	if err := dest.Write(context.Background(), data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if aws.ToString(fake.in.Bucket) != "backups" || aws.ToString(fake.in.Key) != "configs/backup.jsonl" {
		t.Errorf("wrote to %s/%s", aws.ToString(fake.in.Bucket), aws.ToString(fake.in.Key))
	}
	if aws.ToString(fake.in.ContentType) != "application/x-ndjson" {
		t.Errorf("content type = %q", aws.ToString(fake.in.ContentType))
	}
	if aws.ToInt64(fake.in.ContentLength) != int64(len(data)) || string(fake.body) != string(data) {
		t.Errorf("body = %q (length %d)", fake.body, aws.ToInt64(fake.in.ContentLength))
	}
	if dest.String() != "s3://backups/configs/backup.jsonl" {
		t.Errorf("String() = %q", dest.String())
	}
}

func TestS3Destination_WriteError(t *testing.T) {
	dest := &S3Destination{client: &fakeS3{err: errors.New("access denied")}, bucket: "b", key: "k"}
	if err := dest.Write(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected error")
	}
}
