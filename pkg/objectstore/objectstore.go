package objectstore

import (
	"bytes"
	"context"
	"io"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pebble-dev/devportal/config/configkey"
	"github.com/pebble-dev/devportal/pkg/idgen"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// IObjectStore is the asset uploader the submission path talks to. Asset
// references returned here are the only handle the database ever stores.
type IObjectStore interface {
	SaveAssetFromBytes(data []byte, contentType string) (string, error)
	SavePbwFromBytes(objectName string, data []byte) error
	GetFileFromBucket(bucket string, objectName string) (*[]byte, error)
}

type Impl struct {
	MinioClient *minio.Client
	ids         idgen.Generator
}

func NewObjectStore() *Impl {
	return &Impl{MinioClient: GetMinioClient(), ids: idgen.New()}
}

// SaveAssetFromBytes stores one asset in the assets bucket under a freshly
// generated id and returns that id as the asset reference.
func (obs *Impl) SaveAssetFromBytes(data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bucket := viper.GetString(configkey.AssetsBucket)
	if err := obs.ensureBucket(ctx, bucket); err != nil {
		return "", err
	}

	assetId := obs.ids.Generate()
	uploadInfo, err := obs.MinioClient.PutObject(ctx, bucket, assetId, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}

	logrus.Infof("Saved asset to bucket: %+v", uploadInfo)

	return assetId, nil
}

func (obs *Impl) SavePbwFromBytes(objectName string, data []byte) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bucket := viper.GetString(configkey.PbwBucket)
	if err := obs.ensureBucket(ctx, bucket); err != nil {
		return err
	}

	uploadInfo, err := obs.MinioClient.PutObject(ctx, bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/zip"})
	if err != nil {
		return err
	}

	logrus.Infof("Saved pbw to bucket: %+v", uploadInfo)

	return nil
}

func (obs *Impl) GetFileFromBucket(bucket string, objectName string) (*[]byte, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	objectPtr, err := obs.MinioClient.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	fileBytes, _ := io.ReadAll(objectPtr)
	return &fileBytes, err
}

func (obs *Impl) ensureBucket(ctx context.Context, bucket string) error {
	exists, _ := obs.MinioClient.BucketExists(ctx, bucket)
	if !exists {
		err := obs.MinioClient.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		if err != nil {
			logrus.Error(err)
			return err
		}
	}

	return nil
}

func GetMinioClient() *minio.Client {
	accessKey := viper.GetString(configkey.MinioAccessKey)
	secretKey := viper.GetString(configkey.MinioSecretKey)
	minioHost := viper.GetString(configkey.MinioHost)

	logrus.Infof("Minio host=%s, accessKey=%s", minioHost, accessKey)

	minioClient, err := minio.New(minioHost, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: viper.GetBool(configkey.MinioSecure),
	})
	if err != nil {
		log.Fatalln(err)
		return nil
	}

	return minioClient
}
