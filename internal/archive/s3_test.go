package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/nvdmirror/internal/models"
)

func createTestS3(client S3API, prefix string) *S3 {
	a := NewS3WithClient(client, "nvd-archive", prefix, testLogger())
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestS3_SavePage(t *testing.T) {
	var body []byte
	client := &S3APIMock{
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			var err error
			body, err = io.ReadAll(params.Body)
			require.NoError(t, err)
			return &s3.PutObjectOutput{}, nil
		},
	}
	a := createTestS3(client, "/mirror/")

	require.NoError(t, a.SavePage(context.Background(), "cve_data", 4000, []byte(`{"totalResults":0}`)))

	calls := client.PutObjectCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "nvd-archive", aws.ToString(calls[0].Params.Bucket))
	assert.Equal(t, "mirror/raw_api_responses/cve_data_page_4000_20251029_123045.json", aws.ToString(calls[0].Params.Key))
	assert.Equal(t, "application/json", aws.ToString(calls[0].Params.ContentType))
	assert.JSONEq(t, `{"totalResults":0}`, string(body))
}

func TestS3_SavePage_Error(t *testing.T) {
	client := &S3APIMock{
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			return nil, errors.New("access denied")
		},
	}
	a := createTestS3(client, "")

	err := a.SavePage(context.Background(), "cve_data", 0, []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://nvd-archive/raw_api_responses/cve_data_page_0_")
}

func TestS3_Snapshot(t *testing.T) {
	var body []byte
	client := &S3APIMock{
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			var err error
			body, err = io.ReadAll(params.Body)
			require.NoError(t, err)
			return &s3.PutObjectOutput{}, nil
		},
	}
	a := createTestS3(client, "mirror")
	ctx := context.Background()

	snap, err := a.BeginSnapshot(ctx, "cpe_data")
	require.NoError(t, err)
	require.NoError(t, snap.Append([]models.Document{
		map[string]any{"cpe": map[string]any{"cpeName": "cpe:2.3:a:x:y:1:*:*:*:*:*:*:*"}},
	}))
	assert.Empty(t, client.PutObjectCalls())

	location, err := snap.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s3://nvd-archive/mirror/cpe_data_FULL_20251029_123045.json", location)

	var items []any
	require.NoError(t, json.Unmarshal(body, &items))
	assert.Len(t, items, 1)
}

func TestS3_Snapshot_Abort(t *testing.T) {
	client := &S3APIMock{}
	a := createTestS3(client, "")

	snap, err := a.BeginSnapshot(context.Background(), "cve_data")
	require.NoError(t, err)
	require.NoError(t, snap.Abort())
	assert.Empty(t, client.PutObjectCalls())
}

func TestS3_Cleanup(t *testing.T) {
	old := fixedNow.Add(-100 * 24 * time.Hour)
	recent := fixedNow.Add(-time.Hour)

	client := &S3APIMock{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			assert.Equal(t, "mirror/raw_api_responses/", aws.ToString(params.Prefix))
			if params.ContinuationToken == nil {
				return &s3.ListObjectsV2Output{
					Contents: []types.Object{
						{Key: aws.String("mirror/raw_api_responses/a.json"), LastModified: aws.Time(old)},
						{Key: aws.String("mirror/raw_api_responses/b.json"), LastModified: aws.Time(recent)},
					},
					IsTruncated:           aws.Bool(true),
					NextContinuationToken: aws.String("page-2"),
				}, nil
			}
			assert.Equal(t, "page-2", aws.ToString(params.ContinuationToken))
			return &s3.ListObjectsV2Output{
				Contents: []types.Object{
					{Key: aws.String("mirror/raw_api_responses/c.json"), LastModified: aws.Time(old)},
				},
				IsTruncated: aws.Bool(false),
			}, nil
		},
		DeleteObjectsFunc: func(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
			return &s3.DeleteObjectsOutput{}, nil
		},
	}
	a := createTestS3(client, "mirror")

	deleted, err := a.Cleanup(context.Background(), DefaultRetention)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	assert.Len(t, client.ListObjectsV2Calls(), 2)
	calls := client.DeleteObjectsCalls()
	require.Len(t, calls, 1)

	var keys []string
	for _, obj := range calls[0].Params.Delete.Objects {
		keys = append(keys, aws.ToString(obj.Key))
	}
	assert.Equal(t, []string{"mirror/raw_api_responses/a.json", "mirror/raw_api_responses/c.json"}, keys)
}

func TestS3_Cleanup_Batches(t *testing.T) {
	old := fixedNow.Add(-100 * 24 * time.Hour)
	contents := make([]types.Object, 0, 2500)
	for i := range 2500 {
		contents = append(contents, types.Object{
			Key:          aws.String(fmt.Sprintf("raw_api_responses/p_%d.json", i)),
			LastModified: aws.Time(old),
		})
	}

	client := &S3APIMock{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return &s3.ListObjectsV2Output{Contents: contents, IsTruncated: aws.Bool(false)}, nil
		},
		DeleteObjectsFunc: func(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
			out := &s3.DeleteObjectsOutput{}
			// один объект в каждой пачке не удаляется
			out.Errors = []types.Error{{Key: params.Delete.Objects[0].Key, Message: aws.String("locked")}}
			return out, nil
		},
	}
	a := createTestS3(client, "")

	deleted, err := a.Cleanup(context.Background(), DefaultRetention)
	require.NoError(t, err)
	assert.Equal(t, 2500-3, deleted)

	calls := client.DeleteObjectsCalls()
	require.Len(t, calls, 3)
	assert.Len(t, calls[0].Params.Delete.Objects, 1000)
	assert.Len(t, calls[2].Params.Delete.Objects, 500)
}

func TestS3_Cleanup_ListError(t *testing.T) {
	client := &S3APIMock{
		ListObjectsV2Func: func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
			return nil, errors.New("no such bucket")
		},
	}
	a := createTestS3(client, "")

	_, err := a.Cleanup(context.Background(), DefaultRetention)
	require.Error(t, err)
	assert.Empty(t, client.DeleteObjectsCalls())
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Options{}, testLogger())
	require.Error(t, err)
}
