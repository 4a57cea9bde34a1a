package db

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS billing_events (
		stripe_event_id VARCHAR(255) NOT NULL PRIMARY KEY,
		event_type VARCHAR(100) NOT NULL,
		payload LONGTEXT NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT FALSE,
		error_message TEXT NULL,
		attempts INT NOT NULL DEFAULT 0,
		dead_lettered_at DATETIME(6) NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		INDEX idx_billing_events_pending (processed, dead_lettered_at, created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id CHAR(36) NOT NULL PRIMARY KEY,
		tenant_id VARCHAR(255) NOT NULL,
		stripe_subscription_id VARCHAR(255) NOT NULL,
		stripe_customer_id VARCHAR(255) NOT NULL,
		stripe_product_id VARCHAR(255) NOT NULL,
		stripe_price_id VARCHAR(255) NOT NULL,
		customer_email VARCHAR(320) NOT NULL DEFAULT '',
		plan_name VARCHAR(100) NOT NULL,
		billing_interval VARCHAR(16) NOT NULL,
		status VARCHAR(32) NOT NULL,
		current_period_start DATETIME(6) NULL,
		current_period_end DATETIME(6) NULL,
		cancel_at DATETIME(6) NULL,
		canceled_at DATETIME(6) NULL,
		trial_start DATETIME(6) NULL,
		trial_end DATETIME(6) NULL,
		metadata TEXT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		UNIQUE KEY ux_subscriptions_stripe_subscription_id (stripe_subscription_id),
		INDEX idx_subscriptions_tenant (tenant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS payment_history (
		id CHAR(36) NOT NULL PRIMARY KEY,
		subscription_id CHAR(36) NULL,
		stripe_subscription_id VARCHAR(255) NULL,
		stripe_invoice_id VARCHAR(255) NOT NULL,
		stripe_payment_intent_id VARCHAR(255) NULL,
		amount_paid BIGINT NOT NULL,
		currency VARCHAR(3) NOT NULL,
		status VARCHAR(16) NOT NULL,
		paid_at DATETIME(6) NULL,
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY ux_payment_history_stripe_invoice_id (stripe_invoice_id),
		INDEX idx_payment_history_subscription (subscription_id),
		INDEX idx_payment_history_stripe_subscription (stripe_subscription_id),
		FOREIGN KEY (subscription_id) REFERENCES subscriptions (id)
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS billing_events (
		stripe_event_id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT 0,
		error_message TEXT,
		attempts INTEGER NOT NULL DEFAULT 0,
		dead_lettered_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		stripe_subscription_id TEXT NOT NULL UNIQUE,
		stripe_customer_id TEXT NOT NULL,
		stripe_product_id TEXT NOT NULL,
		stripe_price_id TEXT NOT NULL,
		customer_email TEXT NOT NULL DEFAULT '',
		plan_name TEXT NOT NULL,
		billing_interval TEXT NOT NULL,
		status TEXT NOT NULL,
		current_period_start DATETIME,
		current_period_end DATETIME,
		cancel_at DATETIME,
		canceled_at DATETIME,
		trial_start DATETIME,
		trial_end DATETIME,
		metadata TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subscriptions_tenant ON subscriptions (tenant_id)`,
	`CREATE TABLE IF NOT EXISTS payment_history (
		id TEXT PRIMARY KEY,
		subscription_id TEXT REFERENCES subscriptions (id),
		stripe_subscription_id TEXT,
		stripe_invoice_id TEXT NOT NULL UNIQUE,
		stripe_payment_intent_id TEXT,
		amount_paid INTEGER NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		paid_at DATETIME,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_history_subscription ON payment_history (subscription_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payment_history_stripe_subscription ON payment_history (stripe_subscription_id)`,
}
