// Command upscayl is a command-line client for the remote Upscayl API.
//
// It reuses the gateway's configuration, remote client and polling
// orchestrator, so `upscayl wait` behaves exactly like the synchronous
// HTTP endpoint. Configuration comes from UPSCAYL_* environment variables
// and an optional config.yaml in the directory given by --config.
//
//	upscayl start photo.jpg
//	upscayl status 7f0c...
//	upscayl wait --scale 8 --format png photo.jpg
//	upscayl wait --task 7f0c...
//	upscayl token ci-runner
package main
