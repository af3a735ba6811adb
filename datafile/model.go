package datafile

// Column is one schema column of a datasource.
type Column struct {
	Name              string
	Type              string
	JSONPath          string
	DefaultExpression string
	Codec             string
}

// Engine holds the storage engine configuration of a datasource.
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
	// Settings carries any remaining ENGINE_* directives verbatim,
	// keyed by the lowercased directive suffix.
	Settings map[string]string
}

// KafkaBinding is a datasource's Kafka ingestion configuration.
// ConnectionName refers to a connection resource by name; the reference
// is carried through unresolved.
type KafkaBinding struct {
	ConnectionName  string
	Topic           string
	GroupID         string
	AutoOffsetReset string
	StoreRawValue   bool
}

// S3Binding is a datasource's S3 ingestion configuration.
type S3Binding struct {
	ConnectionName string
	BucketURI      string
	Schedule       string
	FromTimestamp  string
}

// Token grants an access scope on a resource.
type Token struct {
	Name  string
	Scope string
}

// Token scopes.
const (
	ScopeRead   = "READ"
	ScopeAppend = "APPEND"
)

// DatasourceModel is the parsed form of a .datasource file.
type DatasourceModel struct {
	Name         string
	FilePath     string
	Description  string
	Columns      []Column
	Engine       Engine
	Kafka        *KafkaBinding
	S3           *S3Binding
	ForwardQuery string
	Tokens       []Token
	SharedWith   []string
}

func (m *DatasourceModel) ResourceName() string { return m.Name }
func (m *DatasourceModel) ResourceKind() Kind   { return KindDatasource }
func (m *DatasourceModel) SourcePath() string   { return m.FilePath }

// PipeType discriminates the behavior of a pipe.
type PipeType string

const (
	PipeTypeDefault      PipeType = "pipe"
	PipeTypeEndpoint     PipeType = "endpoint"
	PipeTypeMaterialized PipeType = "materialized"
	PipeTypeCopy         PipeType = "copy"
)

// PipeNode is a named SQL stage within a pipe. Later nodes may reference
// earlier node names as virtual tables; forward references are invalid.
type PipeNode struct {
	Name        string
	Description string
	SQL         string
}

// Parameter is a typed query parameter declared by a template marker
// inside a node's SQL.
type Parameter struct {
	Name         string
	Type         string
	Required     bool
	DefaultValue string
}

// PipeModel is the parsed form of a .pipe file.
type PipeModel struct {
	Name                   string
	FilePath               string
	Description            string
	Type                   PipeType
	Nodes                  []PipeNode
	CacheTTL               string
	MaterializedDatasource string
	DeploymentMethod       string
	CopyTargetDatasource   string
	CopySchedule           string
	CopyMode               string
	Tokens                 []Token
	Params                 []Parameter
	// InferredOutputColumns is populated by the normalizer when the pipe
	// declares no explicit output schema.
	InferredOutputColumns []string
}

func (m *PipeModel) ResourceName() string { return m.Name }
func (m *PipeModel) ResourceKind() Kind   { return KindPipe }
func (m *PipeModel) SourcePath() string   { return m.FilePath }

// OutputNode returns the node whose result is the pipe's output: the last
// declared node.
func (m *PipeModel) OutputNode() *PipeNode {
	if len(m.Nodes) == 0 {
		return nil
	}
	return &m.Nodes[len(m.Nodes)-1]
}

// ConnectionType discriminates connection providers.
type ConnectionType string

const (
	ConnectionKafka ConnectionType = "kafka"
	ConnectionS3    ConnectionType = "s3"
)

// KafkaConnectionModel is the parsed form of a Kafka .connection file.
type KafkaConnectionModel struct {
	Name              string
	FilePath          string
	BootstrapServers  string
	SecurityProtocol  string
	SASLMechanism     string
	Key               string
	Secret            string
	SchemaRegistryURL string
	SSLCAPem          string
}

func (m *KafkaConnectionModel) ResourceName() string           { return m.Name }
func (m *KafkaConnectionModel) ResourceKind() Kind             { return KindConnection }
func (m *KafkaConnectionModel) SourcePath() string             { return m.FilePath }
func (m *KafkaConnectionModel) ConnectionType() ConnectionType { return ConnectionKafka }

// S3ConnectionModel is the parsed form of an S3 .connection file.
type S3ConnectionModel struct {
	Name            string
	FilePath        string
	Region          string
	ARN             string
	AccessKeyID     string
	SecretAccessKey string
}

func (m *S3ConnectionModel) ResourceName() string           { return m.Name }
func (m *S3ConnectionModel) ResourceKind() Kind             { return KindConnection }
func (m *S3ConnectionModel) SourcePath() string             { return m.FilePath }
func (m *S3ConnectionModel) ConnectionType() ConnectionType { return ConnectionS3 }

// Batch is the full set of successfully parsed models for one run.
type Batch struct {
	KafkaConnections []*KafkaConnectionModel
	S3Connections    []*S3ConnectionModel
	Datasources      []*DatasourceModel
	Pipes            []*PipeModel
}

// Empty reports whether the batch holds no models at all.
func (b *Batch) Empty() bool {
	return len(b.KafkaConnections) == 0 && len(b.S3Connections) == 0 &&
		len(b.Datasources) == 0 && len(b.Pipes) == 0
}
