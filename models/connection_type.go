package models

// ConnectionType identifies the kind of external system a DatabaseConnection
// points at. Stored as its string value.
type ConnectionType string

// Supported connection types.
const (
	// Relational databases
	TypeMySQL      ConnectionType = "mysql"
	TypePostgreSQL ConnectionType = "postgresql"
	TypeMariaDB    ConnectionType = "mariadb"
	TypeSQLServer  ConnectionType = "sqlserver"
	TypeOracle     ConnectionType = "oracle"
	TypeSQLite     ConnectionType = "sqlite"

	// NoSQL stores
	TypeMongoDB       ConnectionType = "mongodb"
	TypeRedis         ConnectionType = "redis"
	TypeCassandra     ConnectionType = "cassandra"
	TypeNeo4j         ConnectionType = "neo4j"
	TypeElasticsearch ConnectionType = "elasticsearch"
	TypeInfluxDB      ConnectionType = "influxdb"
	TypeCouchDB       ConnectionType = "couchdb"
	TypeDynamoDB      ConnectionType = "dynamodb"

	// Cloud services
	TypeRDS       ConnectionType = "rds"
	TypeCloudSQL  ConnectionType = "cloudsql"
	TypeAzureSQL  ConnectionType = "azuresql"
	TypeCosmosDB  ConnectionType = "cosmosdb"
	TypeS3        ConnectionType = "s3"
	TypeBigQuery  ConnectionType = "bigquery"
	TypeSnowflake ConnectionType = "snowflake"
	TypeRedshift  ConnectionType = "redshift"

	// API endpoints
	TypeREST      ConnectionType = "rest"
	TypeGraphQL   ConnectionType = "graphql"
	TypeSOAP      ConnectionType = "soap"
	TypeWebSocket ConnectionType = "websocket"
)

var relationalTypes = map[ConnectionType]bool{
	TypeMySQL:      true,
	TypePostgreSQL: true,
	TypeMariaDB:    true,
	TypeSQLServer:  true,
	TypeOracle:     true,
	TypeSQLite:     true,
	TypeRDS:        true,
	TypeCloudSQL:   true,
	TypeAzureSQL:   true,
	TypeRedshift:   true,
}

var apiTypes = map[ConnectionType]bool{
	TypeREST:      true,
	TypeGraphQL:   true,
	TypeSOAP:      true,
	TypeWebSocket: true,
	TypeS3:        true,
	TypeBigQuery:  true,
	TypeSnowflake: true,
	TypeDynamoDB:  true,
	TypeCosmosDB:  true,
}

var allTypes = map[ConnectionType]bool{}

func init() {
	for t := range relationalTypes {
		allTypes[t] = true
	}
	for t := range apiTypes {
		allTypes[t] = true
	}
	for _, t := range []ConnectionType{
		TypeMongoDB, TypeRedis, TypeCassandra, TypeNeo4j,
		TypeElasticsearch, TypeInfluxDB, TypeCouchDB,
	} {
		allTypes[t] = true
	}
}

// IsValidConnectionType reports whether t names a supported connection type.
func IsValidConnectionType(t ConnectionType) bool {
	return allTypes[t]
}

// IsRelational reports whether t requires a database name.
func (t ConnectionType) IsRelational() bool {
	return relationalTypes[t]
}

// IsAPI reports whether t requires a connection string or URL instead of
// host/port credentials.
func (t ConnectionType) IsAPI() bool {
	return apiTypes[t]
}
