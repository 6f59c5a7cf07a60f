package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// seedDoc is a development document inserted into an empty database.
type seedDoc struct {
	locale, slug, title, body string
}

// seedDocs demonstrate a code-tab group and the locale switch.
var seedDocs = []seedDoc{
	{
		locale: "en",
		slug:   "introduction_to_bumo",
		title:  "Introduction to BUMO",
		body: `BUMO is a public blockchain for ubiquitous value transfer.

## Install the SDK

<ul class="nav nav-tabs">
  <li><a class="nav-link active" data-group="sdk" data-tab="sdk-java">Java</a></li>
  <li><a class="nav-link" data-group="sdk" data-tab="sdk-nodejs">Node.js</a></li>
  <li><a class="nav-link" data-group="sdk" data-tab="sdk-go">Go</a></li>
</ul>
<div class="tab-content">
  <div class="tab-pane active" data-group="sdk" id="sdk-java"><pre><code>mvn install bumo-sdk</code></pre></div>
  <div class="tab-pane" data-group="sdk" id="sdk-nodejs"><pre><code>npm install bumo-sdk</code></pre></div>
  <div class="tab-pane" data-group="sdk" id="sdk-go"><pre><code>go get github.com/bumoproject/bumo-sdk-go</code></pre></div>
</div>
`,
	},
	{
		locale: "cn",
		slug:   "introduction_to_bumo",
		title:  "BUMO 简介",
		body: `BUMO 是面向泛价值流转的公有链。

## 安装 SDK

<ul class="nav nav-tabs">
  <li><a class="nav-link active" data-group="sdk" data-tab="sdk-java">Java</a></li>
  <li><a class="nav-link" data-group="sdk" data-tab="sdk-go">Go</a></li>
</ul>
<div class="tab-content">
  <div class="tab-pane active" data-group="sdk" id="sdk-java"><pre><code>mvn install bumo-sdk</code></pre></div>
  <div class="tab-pane" data-group="sdk" id="sdk-go"><pre><code>go get github.com/bumoproject/bumo-sdk-go</code></pre></div>
</div>
`,
	},
}

// Seed populates the database with initial development data.
// It inserts the sample docs only when the docs table is empty.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM docs").Scan(&count); err != nil {
		return fmt.Errorf("seed check docs: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, d := range seedDocs {
		sum := sha256.Sum256([]byte(d.body))
		_, err := db.Exec(`
			INSERT INTO docs (locale, slug, title, body, source_path, checksum)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (locale, slug) DO NOTHING
		`, d.locale, d.slug, d.title, d.body, "seed", hex.EncodeToString(sum[:]))
		if err != nil {
			return fmt.Errorf("seed insert %s/%s: %w", d.locale, d.slug, err)
		}
	}

	slog.Info("database seeded with sample docs", "count", len(seedDocs))
	return nil
}
