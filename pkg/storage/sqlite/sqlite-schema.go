package sqlite

const schema = `
BEGIN TRANSACTION;

CREATE TABLE
	IF NOT EXISTS roles (
		name TEXT NOT NULL,
		PRIMARY KEY ("name")
	);

CREATE TABLE
	IF NOT EXISTS role_permissions (
		role TEXT NOT NULL,
		permission TEXT NOT NULL,
		PRIMARY KEY (role, permission),
		FOREIGN KEY (role) REFERENCES roles (name)
	);

CREATE TABLE
	IF NOT EXISTS users (
		id TEXT NOT NULL,
		alias TEXT NOT NULL CHECK (length ("alias") >= 5 AND length ("alias") < 16) UNIQUE,
		name TEXT,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created datetime NOT NULL,
		updated datetime NOT NULL,
		PRIMARY KEY ("id"),
		FOREIGN KEY (role) REFERENCES roles (name)
	);

CREATE UNIQUE INDEX IF NOT EXISTS "Alias Index" ON "users" ("alias" ASC);

CREATE TABLE
	IF NOT EXISTS sessions (
		token TEXT NOT NULL,
		user TEXT NOT NULL,
		created datetime NOT NULL,
		expires datetime NOT NULL,
		PRIMARY KEY ("token"),
		FOREIGN KEY (user) REFERENCES users (id)
	);

CREATE TABLE
	IF NOT EXISTS artists (
		id TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		birth_year INTEGER,
		death_year INTEGER,
		nationality TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created datetime NOT NULL,
		updated datetime NOT NULL,
		PRIMARY KEY ("id")
	);

CREATE TABLE
	IF NOT EXISTS locations (
		id TEXT NOT NULL,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		PRIMARY KEY ("id")
	);

CREATE TABLE
	IF NOT EXISTS artworks (
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		creation_year INTEGER,
		height REAL,
		width REAL,
		depth REAL,
		medium TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		owned BOOLEAN NOT NULL DEFAULT FALSE,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		location TEXT,
		added datetime NOT NULL,
		updated datetime NOT NULL,
		PRIMARY KEY ("id"),
		FOREIGN KEY (location) REFERENCES locations (id)
	);

CREATE TABLE
	IF NOT EXISTS artwork_creators (
		artwork TEXT NOT NULL,
		artist TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'Creator',
		PRIMARY KEY (artwork, artist),
		FOREIGN KEY (artwork) REFERENCES artworks (id),
		FOREIGN KEY (artist) REFERENCES artists (id)
	);

CREATE TABLE
	IF NOT EXISTS acquisitions (
		id TEXT NOT NULL,
		artwork TEXT,
		date datetime,
		method INTEGER CHECK (method BETWEEN 1 AND 4),
		price REAL,
		source TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'accepted' CHECK (status IN ('pending', 'accepted', 'rejected')),
		submission TEXT,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created datetime NOT NULL,
		updated datetime NOT NULL,
		PRIMARY KEY ("id"),
		FOREIGN KEY (artwork) REFERENCES artworks (id)
	);

CREATE TABLE
	IF NOT EXISTS exhibitions (
		id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		starts datetime,
		ends datetime,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created datetime NOT NULL,
		updated datetime NOT NULL,
		PRIMARY KEY ("id")
	);

CREATE TABLE
	IF NOT EXISTS exhibition_artworks (
		exhibition TEXT NOT NULL,
		artwork TEXT NOT NULL,
		added datetime NOT NULL,
		PRIMARY KEY (exhibition, artwork),
		FOREIGN KEY (exhibition) REFERENCES exhibitions (id),
		FOREIGN KEY (artwork) REFERENCES artworks (id)
	);

CREATE TABLE
	IF NOT EXISTS tickets (
		id TEXT NOT NULL,
		exhibition TEXT NOT NULL,
		visitor TEXT NOT NULL DEFAULT '',
		member TEXT,
		price REAL NOT NULL,
		visit_date datetime NOT NULL,
		issued datetime NOT NULL,
		PRIMARY KEY ("id"),
		FOREIGN KEY (exhibition) REFERENCES exhibitions (id),
		FOREIGN KEY (member) REFERENCES users (id)
	);

CREATE TABLE
	IF NOT EXISTS products (
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created datetime NOT NULL,
		updated datetime NOT NULL,
		PRIMARY KEY ("id")
	);

CREATE TABLE
	IF NOT EXISTS sales (
		id TEXT NOT NULL,
		cashier TEXT NOT NULL,
		total REAL NOT NULL,
		date datetime NOT NULL,
		PRIMARY KEY ("id"),
		FOREIGN KEY (cashier) REFERENCES users (id)
	);

CREATE TABLE
	IF NOT EXISTS sale_items (
		sale TEXT NOT NULL,
		product TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		price REAL NOT NULL,
		PRIMARY KEY (sale, product),
		FOREIGN KEY (sale) REFERENCES sales (id),
		FOREIGN KEY (product) REFERENCES products (id)
	);

CREATE TABLE
	IF NOT EXISTS activity_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		entity_table TEXT NOT NULL,
		entity_id TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		user TEXT NOT NULL DEFAULT '',
		date datetime NOT NULL
	);

COMMIT;
`

// seed populates the role catalogue on first run; user accounts are registered through the API.
const seed = `
BEGIN TRANSACTION;

INSERT INTO roles (name) VALUES ('admin'), ('curator'), ('staff'), ('cashier'), ('member');

INSERT INTO role_permissions (role, permission) VALUES
	('admin', 'manage_users'),
	('admin', 'view_activity'),
	('admin', 'view_reports'),
	('admin', 'manage_shop'),
	('admin', 'manage_artists'),
	('admin', 'manage_artworks'),
	('admin', 'manage_exhibitions'),
	('admin', 'add_acquisition'),
	('admin', 'edit_acquisitions'),
	('admin', 'delete_acquisition'),
	('admin', 'review_donations'),
	('admin', 'issue_tickets'),
	('admin', 'record_sales'),
	('curator', 'manage_artists'),
	('curator', 'manage_artworks'),
	('curator', 'manage_exhibitions'),
	('curator', 'add_acquisition'),
	('curator', 'edit_acquisitions'),
	('curator', 'delete_acquisition'),
	('curator', 'review_donations'),
	('curator', 'view_reports'),
	('staff', 'add_acquisition'),
	('staff', 'issue_tickets'),
	('cashier', 'record_sales'),
	('cashier', 'issue_tickets');

COMMIT;
`
