package app

import (
	"context"
	"fmt"
	"sync"

	"gocloud.dev/blob"

	cryptoDomain "github.com/allisson/mediavault/internal/crypto/domain"
	cryptoService "github.com/allisson/mediavault/internal/crypto/service"
	"github.com/allisson/mediavault/internal/keystore"
	mediaHTTP "github.com/allisson/mediavault/internal/media/http"
	mediaRepository "github.com/allisson/mediavault/internal/media/repository"
	mediaService "github.com/allisson/mediavault/internal/media/service"
	mediaUseCase "github.com/allisson/mediavault/internal/media/usecase"
)

// mediaComponents holds the key material, storage, and media pipeline.
type mediaComponents struct {
	kmsService      cryptoService.KMSService
	keyStore        *keystore.KeyStore
	codec           cryptoService.Codec
	bucket          *blob.Bucket
	resourceRepo    *mediaRepository.BlobResourceRepository
	rangeDecryptor  *mediaService.RangeDecryptor
	encryptionQueue *mediaUseCase.EncryptionQueue
	mediaUseCase    mediaUseCase.MediaUseCase
	mediaHandler    *mediaHTTP.MediaHandler

	kmsServiceInit      sync.Once
	keyStoreInit        sync.Once
	codecInit           sync.Once
	resourceRepoInit    sync.Once
	rangeDecryptorInit  sync.Once
	encryptionQueueInit sync.Once
	mediaUseCaseInit    sync.Once
	mediaHandlerInit    sync.Once
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// KeyStore returns the access secrets and master key holder.
func (c *Container) KeyStore() (*keystore.KeyStore, error) {
	var err error
	c.keyStoreInit.Do(func() {
		c.keyStore, err = c.initKeyStore()
		if err != nil {
			c.initErrors["keyStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// Codec returns the content cipher keyed from the master key.
func (c *Container) Codec() (cryptoService.Codec, error) {
	var err error
	c.codecInit.Do(func() {
		c.codec, err = c.initCodec()
		if err != nil {
			c.initErrors["codec"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["codec"]; exists {
		return nil, storedErr
	}
	return c.codec, nil
}

// ResourceRepository returns the blob-backed resource repository.
func (c *Container) ResourceRepository() (*mediaRepository.BlobResourceRepository, error) {
	var err error
	c.resourceRepoInit.Do(func() {
		c.resourceRepo, err = c.initResourceRepository()
		if err != nil {
			c.initErrors["resourceRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resourceRepo"]; exists {
		return nil, storedErr
	}
	return c.resourceRepo, nil
}

// RangeDecryptor returns the streaming range decryptor.
func (c *Container) RangeDecryptor() (*mediaService.RangeDecryptor, error) {
	var err error
	c.rangeDecryptorInit.Do(func() {
		c.rangeDecryptor, err = c.initRangeDecryptor()
		if err != nil {
			c.initErrors["rangeDecryptor"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rangeDecryptor"]; exists {
		return nil, storedErr
	}
	return c.rangeDecryptor, nil
}

// EncryptionQueue returns the upload encryption worker pool.
func (c *Container) EncryptionQueue() (*mediaUseCase.EncryptionQueue, error) {
	var err error
	c.encryptionQueueInit.Do(func() {
		c.encryptionQueue, err = c.initEncryptionQueue()
		if err != nil {
			c.initErrors["encryptionQueue"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptionQueue"]; exists {
		return nil, storedErr
	}
	return c.encryptionQueue, nil
}

// MediaUseCase returns the media use case.
func (c *Container) MediaUseCase() (mediaUseCase.MediaUseCase, error) {
	var err error
	c.mediaUseCaseInit.Do(func() {
		c.mediaUseCase, err = c.initMediaUseCase()
		if err != nil {
			c.initErrors["mediaUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mediaUseCase"]; exists {
		return nil, storedErr
	}
	return c.mediaUseCase, nil
}

// MediaHandler returns the media HTTP handler.
func (c *Container) MediaHandler() (*mediaHTTP.MediaHandler, error) {
	var err error
	c.mediaHandlerInit.Do(func() {
		c.mediaHandler, err = c.initMediaHandler()
		if err != nil {
			c.initErrors["mediaHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mediaHandler"]; exists {
		return nil, storedErr
	}
	return c.mediaHandler, nil
}

// initKeyStore opens the master key and loads the access secrets file.
func (c *Container) initKeyStore() (*keystore.KeyStore, error) {
	logger := c.Logger()

	masterKey, err := keystore.OpenMasterKey(
		context.Background(),
		c.KMSService(),
		c.config.MasterKey,
		c.config.KMSKeyURI,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open master key: %w", err)
	}

	keyStore, err := keystore.Load(c.config.AccessKeysFile, masterKey, logger)
	if err != nil {
		masterKey.Close()
		return nil, fmt.Errorf("failed to load access keys: %w", err)
	}
	return keyStore, nil
}

// initCodec derives the content key and builds the AES-CBC codec.
func (c *Container) initCodec() (cryptoService.Codec, error) {
	keyStore, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get key store for codec: %w", err)
	}

	contentKey, err := cryptoService.DeriveContentKey(keyStore.MasterKey().Key)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(contentKey)

	codec, err := cryptoService.NewCBCCodec(contentKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create codec: %w", err)
	}
	return codec, nil
}

// initResourceRepository opens the storage bucket.
func (c *Container) initResourceRepository() (*mediaRepository.BlobResourceRepository, error) {
	bucket, err := mediaRepository.OpenBucket(context.Background(), c.config.StorageURL)
	if err != nil {
		return nil, err
	}
	c.bucket = bucket
	return mediaRepository.NewBlobResourceRepository(bucket), nil
}

// initRangeDecryptor creates the range decryptor over the resource repository.
func (c *Container) initRangeDecryptor() (*mediaService.RangeDecryptor, error) {
	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for range decryptor: %w", err)
	}

	codec, err := c.Codec()
	if err != nil {
		return nil, fmt.Errorf("failed to get codec for range decryptor: %w", err)
	}

	return mediaService.NewRangeDecryptor(resourceRepo, codec, c.config.StreamChunkSize), nil
}

// initEncryptionQueue creates the upload worker pool.
func (c *Container) initEncryptionQueue() (*mediaUseCase.EncryptionQueue, error) {
	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for encryption queue: %w", err)
	}

	codec, err := c.Codec()
	if err != nil {
		return nil, fmt.Errorf("failed to get codec for encryption queue: %w", err)
	}

	return mediaUseCase.NewEncryptionQueue(resourceRepo, codec, c.config.UploadWorkers, c.Logger()), nil
}

// initMediaUseCase creates the media use case with all its dependencies.
func (c *Container) initMediaUseCase() (mediaUseCase.MediaUseCase, error) {
	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for media use case: %w", err)
	}

	rangeDecryptor, err := c.RangeDecryptor()
	if err != nil {
		return nil, fmt.Errorf("failed to get range decryptor for media use case: %w", err)
	}

	encryptionQueue, err := c.EncryptionQueue()
	if err != nil {
		return nil, fmt.Errorf("failed to get encryption queue for media use case: %w", err)
	}

	baseUseCase := mediaUseCase.NewMediaUseCase(resourceRepo, rangeDecryptor, encryptionQueue, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for media use case: %w", err)
		}
		return mediaUseCase.NewMediaUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initMediaHandler creates the media HTTP handler.
func (c *Container) initMediaHandler() (*mediaHTTP.MediaHandler, error) {
	useCase, err := c.MediaUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get media use case for media handler: %w", err)
	}

	streamMetrics, err := c.StreamMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get stream metrics for media handler: %w", err)
	}

	return mediaHTTP.NewMediaHandler(
		useCase,
		streamMetrics,
		mediaHTTP.UploadOptions{
			MaxBytes:   c.config.UploadMaxBytes,
			StagingDir: c.config.UploadStagingDir,
			Async:      c.config.UploadAsync,
		},
		c.Logger(),
	), nil
}
