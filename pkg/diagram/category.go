package diagram

import "strings"

// Category tags a node with its provider and kind, dotted from general to
// specific: "aws.compute.eks", "onprem.monitoring.grafana". It only affects
// presentation: the shape and fill color the node is drawn with.
type Category string

// Provider returns the first segment of the category ("aws").
func (c Category) Provider() string {
	p, _, _ := strings.Cut(string(c), ".")
	return p
}

// Group returns the first two segments of the category ("aws.compute").
func (c Category) Group() string {
	parts := strings.SplitN(string(c), ".", 3)
	if len(parts) < 2 {
		return string(c)
	}
	return parts[0] + "." + parts[1]
}

// Categories used by the built-in architecture. Any other dotted string is
// accepted too; unknown categories fall back to their group or provider style.
const (
	Generic Category = "generic"

	AWSEC2            Category = "aws.compute.ec2"
	AWSEKS            Category = "aws.compute.eks"
	AWSLambda         Category = "aws.compute.lambda"
	AWSRDS            Category = "aws.database.rds"
	AWSDynamoDB       Category = "aws.database.dynamodb"
	AWSElastiCache    Category = "aws.database.elasticache"
	AWSRoute53        Category = "aws.network.route53"
	AWSCloudFront     Category = "aws.network.cloudfront"
	AWSELB            Category = "aws.network.elb"
	AWSVPC            Category = "aws.network.vpc"
	AWSAPIGateway     Category = "aws.network.api_gateway"
	AWSWAF            Category = "aws.security.waf"
	AWSShield         Category = "aws.security.shield"
	AWSIAM            Category = "aws.security.iam"
	AWSKMS            Category = "aws.security.kms"
	AWSACM            Category = "aws.security.certificate_manager"
	AWSCognito        Category = "aws.security.cognito"
	AWSS3             Category = "aws.storage.s3"
	AWSCodePipeline   Category = "aws.devtools.codepipeline"
	AWSCodeBuild      Category = "aws.devtools.codebuild"
	AWSCodeDeploy     Category = "aws.devtools.codedeploy"
	AWSCloudFormation Category = "aws.management.cloudformation"
	AWSCloudWatch     Category = "aws.management.cloudwatch"
	AWSSNS            Category = "aws.integration.sns"
	AWSEventBridge    Category = "aws.integration.eventbridge"

	OnPremVault      Category = "onprem.security.vault"
	OnPremGithub     Category = "onprem.vcs.github"
	OnPremDocker     Category = "onprem.container.docker"
	OnPremPrometheus Category = "onprem.monitoring.prometheus"
	OnPremGrafana    Category = "onprem.monitoring.grafana"
	OnPremNginx      Category = "onprem.network.nginx"
	LangNodeJS       Category = "programming.language.nodejs"
	LangPython       Category = "programming.language.python"
	FrameworkReact   Category = "programming.framework.react"
)

// Style is the Graphviz presentation of a category.
type Style struct {
	Shape     string
	FillColor string
	FontColor string
}

var defaultStyle = Style{Shape: "box", FillColor: "#F2F3F3", FontColor: "#2D3436"}

// styles is keyed by exact category, group, or provider; the most specific
// match wins.
var styles = map[string]Style{
	"aws":             {Shape: "box", FillColor: "#FFE9CC", FontColor: "#232F3E"},
	"aws.compute":     {Shape: "box3d", FillColor: "#FBD8B5", FontColor: "#232F3E"},
	"aws.database":    {Shape: "cylinder", FillColor: "#D6E4F5", FontColor: "#232F3E"},
	"aws.network":     {Shape: "box", FillColor: "#E4D6F5", FontColor: "#232F3E"},
	"aws.security":    {Shape: "octagon", FillColor: "#F8D3D3", FontColor: "#232F3E"},
	"aws.storage":     {Shape: "folder", FillColor: "#D5EDD0", FontColor: "#232F3E"},
	"aws.devtools":    {Shape: "component", FillColor: "#D6E4F5", FontColor: "#232F3E"},
	"aws.management":  {Shape: "tab", FillColor: "#F5D6E8", FontColor: "#232F3E"},
	"aws.integration": {Shape: "parallelogram", FillColor: "#F5D6E8", FontColor: "#232F3E"},
	"aws.network.vpc": {Shape: "hexagon", FillColor: "#E4D6F5", FontColor: "#232F3E"},

	"onprem":            {Shape: "box", FillColor: "#E8EAED", FontColor: "#2D3436"},
	"onprem.monitoring": {Shape: "ellipse", FillColor: "#FCE8D5", FontColor: "#2D3436"},
	"onprem.security":   {Shape: "octagon", FillColor: "#FFF4C2", FontColor: "#2D3436"},
	"onprem.container":  {Shape: "box3d", FillColor: "#D4EAF7", FontColor: "#2D3436"},
	"programming":       {Shape: "note", FillColor: "#E3F1DF", FontColor: "#2D3436"},
}

// StyleOf returns the presentation of c.
func StyleOf(c Category) Style {
	for _, key := range []string{string(c), c.Group(), c.Provider()} {
		if s, ok := styles[key]; ok {
			return s
		}
	}
	return defaultStyle
}

// clusterFills alternate with nesting depth.
var clusterFills = []string{"#E5F5FD", "#EBF3E7", "#ECE8F6", "#FDF7E3"}

func clusterFill(depth int) string {
	return clusterFills[depth%len(clusterFills)]
}
