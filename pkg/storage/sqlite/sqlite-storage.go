package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Storage struct {
	Connection *sql.DB
	logger     *logrus.Logger
}

// New opens the database at the given path, creating and seeding it on first run.
// Existing databases have their schema verified against the embedded one.
func New(logger *logrus.Logger, path string) (storage *Storage, err error) {

	logger.Println("initialising SQLite DB")

	var connection *sql.DB

	// the database already exists, check for its contents
	if _, err = os.Stat(path); err == nil {
		connection, err = getValidConnection(path)
		if err != nil {
			logger.WithError(err).Error("error while verifying existing database")
			return nil, err
		}
	} else {
		// create the file and initialise the schema; mind the explicit need for foreign keys constraints
		connection, err = sql.Open("sqlite3", getConnectionString(path))
		if err != nil {
			logger.WithError(err).Error("error while creating new database")
			return nil, err
		}
		if err = CreateSchema(connection); err != nil {
			logger.WithError(err).Error("error while building database schema")
			return nil, err
		}
		if _, err = connection.Exec(seed); err != nil {
			logger.WithError(err).Error("error while seeding roles and permissions")
			return nil, err
		}
	}

	// opening the DB will fail silently when the package is compiled without CGO_ENABLED
	if err = connection.Ping(); err != nil {
		return nil, err
	}
	return &Storage{connection, logger}, nil
}

// CreateSchema builds the embedded schema on the given connection; exposed for tests which run
// against in-memory databases.
func CreateSchema(connection *sql.DB) error {
	_, err := connection.Exec(schema)
	return err
}

// SeedRoles populates the role and permission catalogue, as done on first run.
func SeedRoles(connection *sql.DB) error {
	_, err := connection.Exec(seed)
	return err
}

func (s *Storage) Close() {
	s.logger.Debug("database stopping")
	if err := s.Connection.Close(); err != nil {
		s.logger.WithError(err).Warning("error closing database connection")
	}
}

func getValidConnection(path string) (connection *sql.DB, err error) {
	connection, err = sql.Open("sqlite3", getConnectionString(path))
	if err != nil {
		return nil, err
	}

	// read the schema as defined in the storage package
	desired, err := sql.Open("sqlite3", getConnectionString(":memory:"))
	if err != nil {
		return nil, err
	}
	if err = CreateSchema(desired); err != nil {
		return nil, err
	}

	// compare the defined schema with the actual one found in the existing database
	desiredTables, err := mapSchema(desired)
	if err != nil {
		return nil, err
	}
	actualTables, err := mapSchema(connection)
	if err != nil {
		return nil, err
	}

	// the database already exists and its schema matches the desired one
	if sameSchemaMap(desiredTables, actualTables) {
		return connection, nil
	}
	return nil, errors.New("schema mismatch")
}

func mapSchema(connection *sql.DB) (tables map[string]string, err error) {

	rows, err := connection.Query(`SELECT name, sql FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, err
	}

	// in-memory and on-file sqlite schemas may differ in whitespace, possibly due to the hosting platform
	var replacer = strings.NewReplacer(
		"\n\t\t", "",
		"\r\n\t\t", "",
		"\r\n", "",
		"\n", "",
	)

	tables = make(map[string]string)
	var name, sqlCode string
	for rows.Next() {
		err = rows.Scan(&name, &sqlCode)
		if err != nil {
			return tables, err
		}
		tables[name] = replacer.Replace(sqlCode)
	}

	if err = rows.Err(); err != nil {
		return tables, err
	}

	err = rows.Close()
	if err != nil {
		return tables, err
	}

	return tables, err
}

func sameSchemaMap(first, second map[string]string) bool {
	// the second map might be larger than the first, hence the additional length check
	if len(first) != len(second) {
		return false
	}
	for firstKey, firstValue := range first {
		if secondValue, found := second[firstKey]; !found || secondValue != firstValue {
			return false
		}
	}
	return true
}

// getConnectionString provides a configuration string that enables foreign keys constraints
func getConnectionString(path string) string {
	return path + "?_fk=on"
}
