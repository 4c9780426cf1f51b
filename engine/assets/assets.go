package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spaghettifunk/voxelcraft/engine/assets/loaders"
	"github.com/spaghettifunk/voxelcraft/engine/core"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

type AssetType int

const (
	AssetTypeNone AssetType = iota
	AssetTypeShader
	AssetTypeTexture
	AssetTypeMaterial
)

func (t AssetType) String() string {
	switch t {
	case AssetTypeShader:
		return "shader"
	case AssetTypeTexture:
		return "texture"
	case AssetTypeMaterial:
		return "material"
	}
	return "none"
}

type AssetInfo struct {
	ID      uuid.UUID
	Path    string
	Type    AssetType
	ModTime time.Time
}

var ErrAssetNotFound = errors.New("asset not found")

// AssetManager keeps an index of the asset files under a root directory and
// loads them on request. The index follows the file system while the
// manager is open; loaded assets are never reloaded.
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[AssetType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	// watching is set once the watcher goroutine runs.
	watching bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[AssetType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize(assetsDir string) error {
	root, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.root = root

	am.registerLoader(AssetTypeShader, &loaders.ShaderLoader{})
	am.registerLoader(AssetTypeTexture, &loaders.TextureLoader{})
	am.registerLoader(AssetTypeMaterial, &loaders.MaterialLoader{})

	if err := am.addRecursive(am.root); err != nil {
		return err
	}
	am.mutex.Lock()
	am.watching = true
	am.mutex.Unlock()
	go am.start()

	core.LogDebug("asset index built: %d files under '%s'", am.Len(), am.root)
	return nil
}

// Shutdown stops watching the asset directory.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	watching := am.watching
	am.mutex.Unlock()

	if !watching {
		return am.fsnotify.Close()
	}
	close(am.done)
	<-am.stopped
	return nil
}

// addRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset watcher already closed")
	}
	return am.watchRecursive(name)
}

func (am *AssetManager) registerLoader(assetType AssetType, loader Loader) {
	am.loaders[assetType] = loader
}

// Len is the number of indexed assets.
func (am *AssetManager) Len() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// Lookup returns the index entry of path, relative to the asset root or not.
func (am *AssetManager) Lookup(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[am.key(path)]
	return info, ok
}

// List returns the indexed assets of one type, sorted by path.
func (am *AssetManager) List(assetType AssetType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	out := []AssetInfo{}
	for _, a := range am.assets {
		if a.Type == assetType {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// LoadAsset decodes an indexed asset with the loader of its type.
func (am *AssetManager) LoadAsset(path string) (interface{}, error) {
	asset, exists := am.Lookup(path)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
	}
	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}
	return loader.Load(asset.Path)
}

func (am *AssetManager) LoadMaterial(path string) (*metadata.MaterialSpec, error) {
	res, err := am.LoadAsset(path)
	if err != nil {
		return nil, err
	}
	spec, ok := res.(*metadata.MaterialSpec)
	if !ok {
		return nil, fmt.Errorf("asset '%s' is not a material", path)
	}
	return spec, nil
}

func (am *AssetManager) LoadImage(path string) (*loaders.Image, error) {
	res, err := am.LoadAsset(path)
	if err != nil {
		return nil, err
	}
	img, ok := res.(*loaders.Image)
	if !ok {
		return nil, fmt.Errorf("asset '%s' is not a texture", path)
	}
	return img, nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogWarn("failed to watch '%s': %s", e.Name, err)
					}
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			// a removed directory cannot be stat'ed, drop the watch either way
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under path to the watch list and
// indexes the files it finds.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

func (am *AssetManager) key(path string) string {
	p := filepath.Clean(path)
	abs := p
	if !filepath.IsAbs(abs) {
		if a, err := filepath.Abs(abs); err == nil {
			abs = a
		}
	}
	if rel, err := filepath.Rel(am.root, abs); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(p)
}

// handleFileEvent indexes a created or modified file. An asset keeps its ID
// across modifications.
func (am *AssetManager) handleFileEvent(path string) {
	assetType := determineAssetType(path)
	if assetType == AssetTypeNone {
		return
	}
	var modTime time.Time
	if fi, err := os.Stat(path); err == nil {
		modTime = fi.ModTime()
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()

	k := am.key(path)
	id := uuid.New()
	if existing, ok := am.assets[k]; ok {
		id = existing.ID
	}
	am.assets[k] = AssetInfo{
		ID:      id,
		Path:    path,
		Type:    assetType,
		ModTime: modTime,
	}
}

func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, am.key(path))
}

func determineAssetType(path string) AssetType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".spv":
		return AssetTypeShader
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return AssetTypeTexture
	case ".toml":
		return AssetTypeMaterial
	default:
		return AssetTypeNone
	}
}
