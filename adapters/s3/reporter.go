// Package s3 把場次結束的拍賣總結上傳到 S3 相容儲存。
package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type ReportUploader struct {
	// Client 是 S3 客戶端。
	Client *s3.Client
	// Bucket 是 S3 存儲桶的名稱。
	Bucket string
	// Prefix 是報告物件的路徑前綴。
	Prefix string
	// PublicEndpoint 是 S3 存儲桶的公開 Endpoint。
	PublicEndpoint *url.URL
}

func NewReportUploader(client *s3.Client, bucket, prefix, publicBaseURL string) (*ReportUploader, error) {
	const op = "NewReportUploader"
	publicEndpoint, err := url.Parse(publicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to parse public base URL, err=%w", op, err)
	}
	return &ReportUploader{Client: client, Bucket: bucket, Prefix: prefix, PublicEndpoint: publicEndpoint}, nil
}

// UploadReport 以時間戳命名上傳拍賣總結，回傳可公開存取的連結
func (r *ReportUploader) UploadReport(ctx context.Context, report string) (string, error) {
	const op = "UploadReport"
	key := fmt.Sprintf("%s/auction-%s.txt", r.Prefix, time.Now().UTC().Format("20060102-150405"))
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(report)),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("[%s] Fail to upload report to S3, err=%w", op, err)
	}
	uri := *r.PublicEndpoint
	uri.Path = key
	return uri.String(), nil
}
