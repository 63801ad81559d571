package main

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// fakeUploader records the keys of uploaded objects
type fakeUploader struct {
	s3iface.S3API
	keys []string
}

func (f *fakeUploader) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.keys = append(f.keys, aws.StringValue(input.Key))
	return &s3.PutObjectOutput{}, nil
}
