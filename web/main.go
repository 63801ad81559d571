package main

import (
	"errors"
	"flag"
	"io/fs"

	"github.com/golang/glog"
	"github.com/joho/godotenv"

	"github.com/df07/go-raytracer/pkg/config"
	"github.com/df07/go-raytracer/pkg/core"
	"github.com/df07/go-raytracer/pkg/publish"
	"github.com/df07/go-raytracer/web/server"
)

func main() {
	// Local development settings; a missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		glog.Exitf("Failed to load .env: %v", err)
	}

	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes-dir", "scenes", "Directory of YAML scene files")
	flag.Parse()
	defer glog.Flush()

	// S3 settings come from RAYTRACER_S3_* variables
	s3Config := config.LoadS3(config.NewViper())

	var publisher *publish.Publisher
	if s3Config.Bucket != "" {
		client, err := publish.NewS3Client(s3Config)
		if err != nil {
			glog.Exitf("Failed to create S3 client: %v", err)
		}
		publisher = publish.NewPublisher(client, s3Config.Bucket, s3Config.Prefix)
		publisher.SetLogger(core.GlogLogger{})
		glog.Infof("Publishing renders to s3://%s/%s", s3Config.Bucket, s3Config.Prefix)
	}

	// Create and start web server
	webServer := server.NewServer(server.Config{
		Port:      *port,
		ScenesDir: *scenesDir,
		Publisher: publisher,
	})

	glog.Infof("Raytracer Web Server")
	glog.Infof("Visit http://localhost:%d/api/scenes to list scenes", *port)

	if err := webServer.Start(); err != nil {
		glog.Exitf("Error starting server: %v", err)
	}
}
