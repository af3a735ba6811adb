// Package schema is the declarative schema-definition API that generated
// migration modules call. Definitions register into a package-level
// registry; nothing here talks to a hosted service.
package schema

import "sync"

// Column is one typed column of a datasource schema.
type Column struct {
	Name     string
	Type     string
	JSONPath string
	Default  string
	Codec    string
}

// Engine configures a datasource's storage engine.
type Engine struct {
	Type           string
	SortingKey     []string
	PartitionKey   string
	PrimaryKey     []string
	TTL            string
	Ver            string
	IsDeleted      string
	Sign           string
	Version        string
	SummingColumns []string
	Settings       map[string]string
}

// KafkaSource binds a datasource to a Kafka connection for ingestion.
type KafkaSource struct {
	Connection      string
	Topic           string
	GroupID         string
	AutoOffsetReset string
	StoreRawValue   bool
}

// S3Source binds a datasource to an S3 connection for ingestion.
type S3Source struct {
	Connection    string
	BucketURI     string
	Schedule      string
	FromTimestamp string
}

// Token grants an access scope on a resource.
type Token struct {
	Name  string
	Scope string
}

// DataSource is a declarative datasource definition.
type DataSource struct {
	Name         string
	Description  string
	Columns      []Column
	Engine       Engine
	Kafka        *KafkaSource
	S3           *S3Source
	ForwardQuery string
	Tokens       []Token
	SharedWith   []string
}

// PipeType discriminates pipe behavior.
type PipeType string

const (
	PipeTypeDefault      PipeType = "pipe"
	PipeTypeEndpoint     PipeType = "endpoint"
	PipeTypeMaterialized PipeType = "materialized"
	PipeTypeCopy         PipeType = "copy"
)

// PipeNode is one SQL stage of a pipe.
type PipeNode struct {
	Name        string
	Description string
	SQL         string
}

// Parameter is a typed query parameter of a pipe.
type Parameter struct {
	Name     string
	Type     string
	Required bool
	Default  string
}

// Pipe is a declarative pipe definition.
type Pipe struct {
	Name             string
	Description      string
	Type             PipeType
	Nodes            []PipeNode
	Datasource       string // materialization target
	TargetDatasource string // copy target
	CopySchedule     string
	CopyMode         string
	CacheTTL         string
	DeploymentMethod string
	Parameters       []Parameter
	OutputColumns    []string
	Tokens           []Token
}

// KafkaConnection holds Kafka broker credentials and endpoints.
type KafkaConnection struct {
	Name              string
	BootstrapServers  string
	SecurityProtocol  string
	SASLMechanism     string
	Key               string
	Secret            string
	SchemaRegistryURL string
	SSLCAPem          string
}

// S3Connection holds S3 credentials and location settings.
type S3Connection struct {
	Name            string
	Region          string
	ARN             string
	AccessKeyID     string
	SecretAccessKey string
}

// registry collects every definition made through the package.
type registry struct {
	mu          sync.Mutex
	dataSources []*DataSource
	pipes       []*Pipe
	kafka       []*KafkaConnection
	s3          []*S3Connection
}

var defaultRegistry registry

// DefineDataSource registers a datasource definition and returns it.
func DefineDataSource(ds DataSource) *DataSource {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	d := &ds
	defaultRegistry.dataSources = append(defaultRegistry.dataSources, d)
	return d
}

// DefinePipe registers a pipe definition and returns it.
func DefinePipe(p Pipe) *Pipe {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if p.Type == "" {
		p.Type = PipeTypeDefault
	}
	pp := &p
	defaultRegistry.pipes = append(defaultRegistry.pipes, pp)
	return pp
}

// CreateKafkaConnection registers a Kafka connection and returns it.
func CreateKafkaConnection(c KafkaConnection) *KafkaConnection {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	cc := &c
	defaultRegistry.kafka = append(defaultRegistry.kafka, cc)
	return cc
}

// CreateS3Connection registers an S3 connection and returns it.
func CreateS3Connection(c S3Connection) *S3Connection {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	cc := &c
	defaultRegistry.s3 = append(defaultRegistry.s3, cc)
	return cc
}

// DataSources returns every registered datasource in definition order.
func DataSources() []*DataSource {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	out := make([]*DataSource, len(defaultRegistry.dataSources))
	copy(out, defaultRegistry.dataSources)
	return out
}

// Pipes returns every registered pipe in definition order.
func Pipes() []*Pipe {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	out := make([]*Pipe, len(defaultRegistry.pipes))
	copy(out, defaultRegistry.pipes)
	return out
}

// KafkaConnections returns every registered Kafka connection.
func KafkaConnections() []*KafkaConnection {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	out := make([]*KafkaConnection, len(defaultRegistry.kafka))
	copy(out, defaultRegistry.kafka)
	return out
}

// S3Connections returns every registered S3 connection.
func S3Connections() []*S3Connection {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	out := make([]*S3Connection, len(defaultRegistry.s3))
	copy(out, defaultRegistry.s3)
	return out
}

// Reset clears the registry. Intended for tests.
func Reset() {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.dataSources = nil
	defaultRegistry.pipes = nil
	defaultRegistry.kafka = nil
	defaultRegistry.s3 = nil
}
