package platform

import (
	"fmt"

	"github.com/imamik/missioncontrol/internal/booster"
)

// MetadataBuilderImage overrides the builder image of a booster.
const MetadataBuilderImage = "builderImage"

const (
	openJDKImage = "registry.access.redhat.com/redhat-openjdk-18/openjdk18-openshift:latest"
	nodeJSImage  = "registry.access.redhat.com/rhscl/nodejs-10-rhel7:latest"
	goImage      = "registry.access.redhat.com/devtools/go-toolset-rhel7:latest"
	pythonImage  = "registry.access.redhat.com/rhscl/python-36-rhel7:latest"
)

// builderImages maps booster runtimes to S2I builder images.
var builderImages = map[string]string{
	"vertx":         openJDKImage,
	"spring-boot":   openJDKImage,
	"thorntail":     openJDKImage,
	"wildfly-swarm": openJDKImage,
	"nodejs":        nodeJSImage,
	"golang":        goImage,
	"python":        pythonImage,
}

// BuilderImage returns the S2I builder image for b. Booster metadata takes
// precedence over the runtime table.
func BuilderImage(b booster.Booster) (string, error) {
	if img := b.Metadata[MetadataBuilderImage]; img != "" {
		return img, nil
	}
	if img, ok := builderImages[b.Runtime.ID]; ok {
		return img, nil
	}
	return "", fmt.Errorf("no builder image for runtime %q", b.Runtime.ID)
}
