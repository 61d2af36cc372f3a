package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/aouyang1/portfolio/api/client"
	"github.com/aouyang1/portfolio/config"
	"github.com/aouyang1/portfolio/store"
	"github.com/aouyang1/portfolio/util"
)

const (
	remoteCheckInterval = time.Hour
	remoteSyncTimeout   = 30 * time.Minute

	// remoteDirName is the photos subdirectory holding synced files.
	remoteDirName = "remote"
)

var ErrRemoteDisabled = errors.New("remote photo sync is not configured")

// RemoteManager mirrors an S3 bucket into the remote photos directory and
// registers the files as remote photos.
type RemoteManager struct {
	client *s3.Client

	profile  string
	s3Bucket string

	outputPath string

	photoClient *client.PhotoClient
}

func NewRemoteManager(ctx context.Context, remote config.Remote, outputPath string, photoClient *client.PhotoClient) (*RemoteManager, error) {
	if !remote.Enabled() {
		return nil, ErrRemoteDisabled
	}

	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create remote photos directory: %w", err)
	}

	// Load the Shared AWS Configuration (~/.aws/config)
	ctxCfg, cancelCfg := context.WithTimeout(ctx, 3*time.Second)
	cfg, err := awsconfig.LoadDefaultConfig(
		ctxCfg,
		awsconfig.WithSharedConfigProfile(remote.AWSProfile),
	)
	cancelCfg()
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &RemoteManager{
		client:      s3.NewFromConfig(cfg),
		profile:     remote.AWSProfile,
		s3Bucket:    remote.S3Bucket,
		outputPath:  outputPath,
		photoClient: photoClient,
	}, nil
}

// GetS3Keys lists the supported image keys at the top level of the bucket.
func (r *RemoteManager) GetS3Keys(ctx context.Context) (mapset.Set[string], error) {
	keys := mapset.NewThreadUnsafeSet[string]()

	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.s3Bucket),
	})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to list s3 objects, %s, %w", r.s3Bucket, err)
		}
		for object := range slices.Values(output.Contents) {
			name := aws.ToString(object.Key)
			if strings.Contains(name, "/") || !util.IsSupported(name) {
				continue
			}
			keys.Add(name)
		}
	}

	if keys.Cardinality() == 0 {
		slog.Info("no remote files found", "bucket", r.s3Bucket)
	}
	return keys, nil
}

func (r *RemoteManager) DownloadObject(ctx context.Context, name string) error {
	downloader := manager.NewDownloader(r.client)

	f, err := os.Create(filepath.Join(r.outputPath, name))
	if err != nil {
		return fmt.Errorf("unable to create file for s3 download, %s, %w", name, err)
	}
	defer f.Close()

	if _, err := downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(r.s3Bucket),
		Key:    aws.String(name),
	}); err != nil {
		return fmt.Errorf("unable to download object from s3, %s, %w", name, err)
	}
	return nil
}

func (r *RemoteManager) getLocalFiles() (mapset.Set[string], error) {
	dirs, err := os.ReadDir(r.outputPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read directory, %s, %w", r.outputPath, err)
	}

	localFiles := mapset.NewThreadUnsafeSet[string]()
	for dir := range slices.Values(dirs) {
		if dir.IsDir() || !util.IsSupported(dir.Name()) {
			continue
		}
		localFiles.Add(dir.Name())
	}
	return localFiles, nil
}

func (r *RemoteManager) SyncFolder(ctx context.Context) error {
	localFiles, err := r.getLocalFiles()
	if err != nil {
		return err
	}

	remoteFiles, err := r.GetS3Keys(ctx)
	if err != nil {
		return err
	}

	toDelete := mapset.Sorted(localFiles.Difference(remoteFiles))
	toDownload := mapset.Sorted(remoteFiles.Difference(localFiles))
	if len(toDelete) > 0 {
		slog.Info("deleting local files", "count", len(toDelete), "names", toDelete)
		for name := range slices.Values(toDelete) {
			if err := os.Remove(filepath.Join(r.outputPath, name)); err != nil {
				slog.Warn("unable to remove local file", "name", name, "error", err)
			}
		}
	}
	if len(toDownload) > 0 {
		slog.Info("adding files", "count", len(toDownload), "names", toDownload)
		for name := range slices.Values(toDownload) {
			if err := r.DownloadObject(ctx, name); err != nil {
				slog.Warn("error while downloading s3 object", "name", name, "error", err)
			}
		}
	}

	// Get current local files again (in case they changed during sync)
	localFiles, err = r.getLocalFiles()
	if err != nil {
		return err
	}
	r.syncRegistrations(localFiles)
	return nil
}

// syncRegistrations registers every synced file and removes remote photo
// records whose file is gone.
func (r *RemoteManager) syncRegistrations(localFiles mapset.Set[string]) {
	for _, name := range mapset.Sorted(localFiles) {
		if _, err := r.photoClient.RegisterPhoto(path.Join(remoteDirName, name), store.CategoryRemote); err != nil {
			slog.Warn("error while registering remote photo", "name", name, "error", err)
		}
	}

	registeredPhotos, err := r.photoClient.GetPhotos(store.CategoryRemote)
	if err != nil {
		slog.Warn("error getting registered photos from DB", "error", err)
		return
	}

	registered := make(map[string]string)
	for _, photo := range registeredPhotos {
		registered[path.Base(photo.Filename)] = photo.ID
	}
	registeredNames := mapset.NewThreadUnsafeSetFromMapKeys(registered)

	toDeregister := mapset.Sorted(registeredNames.Difference(localFiles))
	if len(toDeregister) > 0 {
		slog.Info("deregistering remote photos not present locally", "count", len(toDeregister), "names", toDeregister)
		for _, name := range toDeregister {
			if err := r.photoClient.DeletePhoto(registered[name]); err != nil {
				slog.Warn("error while deregistering photo", "name", name, "error", err)
			}
		}
	}
}

func (r *RemoteManager) sync(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, remoteSyncTimeout)
	defer cancel()
	if err := r.SyncFolder(ctx); err != nil {
		slog.Warn("error while syncing with remote", "bucket", r.s3Bucket, "profile", r.profile, "error", err)
	}
}

func (r *RemoteManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(remoteCheckInterval)
	defer ticker.Stop()

	// Initial sync
	r.sync(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.sync(ctx)
		}
	}
}
