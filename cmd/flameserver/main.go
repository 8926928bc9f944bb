// Command flameserver starts the fractal flame render service: it loads
// configuration, wires up blob/progress stores (networked if endpoints are
// configured, in-memory otherwise), and serves the HTTP API.
package main

import (
	"log"
	"net/http"

	"github.com/ifsflame/flameserver/config"
	"github.com/ifsflame/flameserver/httpapi"
	"github.com/ifsflame/flameserver/jobengine"
	"github.com/ifsflame/flameserver/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	storeCfg := config.LoadStoreConfig()

	blob, err := buildBlobStore(storeCfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	kv := buildProgressStore(storeCfg)

	engine := jobengine.New(cfg, blob, kv)
	router := httpapi.NewRouter(&httpapi.Server{Engine: engine, Blob: blob, Config: cfg})

	addr := ":" + config.AppPort()
	log.Printf("flameserver listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func buildBlobStore(cfg config.StoreConfig) (store.BlobStore, error) {
	if cfg.BlobEndpoint == "" {
		log.Printf("BLOB_ENDPOINT unset, using in-memory blob store")
		return store.NewMemBlobStore(), nil
	}
	return store.NewS3BlobStore(store.S3Config{
		Endpoint:  cfg.BlobEndpoint,
		AccessKey: cfg.BlobAccessKey,
		SecretKey: cfg.BlobSecretKey,
		Bucket:    cfg.BlobBucket,
		Region:    cfg.BlobRegion,
	})
}

func buildProgressStore(cfg config.StoreConfig) store.ProgressStore {
	if cfg.KVAddr == "" {
		log.Printf("KV_ADDR unset, using in-memory progress store")
		return store.NewMemProgressStore()
	}
	return store.NewRedisProgressStore(store.RedisConfig{
		Addr:     cfg.KVAddr,
		Password: cfg.KVPassword,
		DB:       cfg.KVDB,
	})
}
