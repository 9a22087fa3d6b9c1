package config

import (
	"sort"
	"strings"
)

// Service describes a known S3-compatible provider. EndpointTemplate may
// contain a {region} placeholder; an empty template means the SDK's default
// endpoint resolution applies.
type Service struct {
	Name             string
	EndpointTemplate string
	Regions          []string
}

// Services is the catalog of supported S3-compatible providers
var Services = map[string]Service{
	"aws": {
		Name:    "Amazon S3",
		Regions: []string{"us-east-1", "us-west-2", "eu-west-1", "ap-southeast-1"},
	},
	"digitalocean": {
		Name:             "DigitalOcean Spaces",
		EndpointTemplate: "https://{region}.digitaloceanspaces.com",
		Regions:          []string{"nyc3", "ams3", "sgp1", "fra1", "sfo3", "tor1", "blr1"},
	},
	"wasabi": {
		Name:             "Wasabi",
		EndpointTemplate: "https://s3.{region}.wasabisys.com",
		Regions:          []string{"us-east-1", "us-east-2", "us-west-1", "eu-central-1", "ap-northeast-1"},
	},
	"backblaze": {
		Name:             "Backblaze B2",
		EndpointTemplate: "https://s3.{region}.backblazeb2.com",
		Regions:          []string{"us-west-002", "eu-central-003"},
	},
	"minio": {
		Name:             "MinIO",
		EndpointTemplate: "http://localhost:9000",
		Regions:          []string{"us-east-1"},
	},
	"custom": {
		Name: "Custom S3-compatible service",
	},
}

// EndpointFor expands the service endpoint template with the given region
func (s Service) EndpointFor(region string) string {
	if s.EndpointTemplate == "" {
		return ""
	}
	return strings.ReplaceAll(s.EndpointTemplate, "{region}", region)
}

// ServiceNames returns the sorted catalog keys for help and error messages
func ServiceNames() string {
	names := make([]string, 0, len(Services))
	for name := range Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
