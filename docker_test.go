package main_test

import (
	"os"
	"strings"
	"testing"
)

func readRootFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("%s should exist: %v", name, err)
	}
	return string(data)
}

// composeServiceBlock はdocker-compose.ymlから指定サービスの定義ブロックを切り出す。
// 同じインデント深さの次のキーまでをそのサービスの設定とみなす。
func composeServiceBlock(t *testing.T, content, service string) string {
	t.Helper()
	lines := strings.Split(content, "\n")
	var block []string
	inBlock := false
	for _, line := range lines {
		if strings.TrimSpace(line) == service+":" && strings.HasPrefix(line, "  ") && !strings.HasPrefix(line, "   ") {
			inBlock = true
			continue
		}
		if inBlock {
			trimmed := strings.TrimSpace(line)
			// インデント2のキーが現れたらブロック終了
			if trimmed != "" && !strings.HasPrefix(line, "   ") && !strings.HasPrefix(trimmed, "#") {
				break
			}
			block = append(block, line)
		}
	}
	if !inBlock {
		t.Fatalf("docker-compose.yml should define service %q", service)
	}
	return strings.Join(block, "\n")
}

func TestDockerfileMultiStageDistroless(t *testing.T) {
	content := readRootFile(t, "Dockerfile")

	if !strings.Contains(content, "FROM golang:") {
		t.Error("Dockerfile should contain a Go builder stage (FROM golang:)")
	}

	// 最終ステージはdistrolessの静的イメージであること
	lines := strings.Split(content, "\n")
	var lastFrom string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "FROM ") {
			lastFrom = trimmed
		}
	}
	if !strings.Contains(lastFrom, "gcr.io/distroless/static") {
		t.Errorf("final stage should use a distroless static image, got: %s", lastFrom)
	}

	// distroless/staticで動かすため静的リンクが必須
	if !strings.Contains(content, "CGO_ENABLED=0") {
		t.Error("Dockerfile should build with CGO_ENABLED=0 for a static binary")
	}
}

func TestDockerfileEntrypointSupportsSubcommands(t *testing.T) {
	content := readRootFile(t, "Dockerfile")

	// ENTRYPOINTをバイナリ、CMDをサブコマンドに分けることで
	// 同一イメージをserve/worker/migrate/healthcheckで使い回せる
	if !strings.Contains(content, `ENTRYPOINT ["/scoutbase"]`) {
		t.Error("Dockerfile should set ENTRYPOINT to the scoutbase binary")
	}
	if !strings.Contains(content, `CMD ["serve"]`) {
		t.Error("Dockerfile should default CMD to the serve subcommand")
	}
}

func TestDockerfileExposesAPIAndMetricsPorts(t *testing.T) {
	content := readRootFile(t, "Dockerfile")

	if !strings.Contains(content, "8080") || !strings.Contains(content, "9090") {
		t.Error("Dockerfile should expose the API port (8080) and metrics port (9090)")
	}
}

func TestDockerComposeServices(t *testing.T) {
	content := readRootFile(t, "docker-compose.yml")

	// 3コンテナ構成: api, worker, db
	for _, svc := range []string{"api", "worker", "db"} {
		composeServiceBlock(t, content, svc)
	}
}

func TestDockerComposeAPIService(t *testing.T) {
	content := readRootFile(t, "docker-compose.yml")
	api := composeServiceBlock(t, content, "api")

	if !strings.Contains(api, `command: ["serve"]`) {
		t.Error("api service should start with the serve subcommand")
	}
	// 自己診断はhealthcheckサブコマンドで行う（distrolessにはcurlがない）
	if !strings.Contains(api, `"/scoutbase", "healthcheck"`) {
		t.Error("api service should health-check via the healthcheck subcommand")
	}
	// JWTシークレットは必須の環境変数として外から注入する
	for _, v := range []string{"JWT_ACCESS_SECRET: ${JWT_ACCESS_SECRET:?}", "JWT_REFRESH_SECRET: ${JWT_REFRESH_SECRET:?}"} {
		if !strings.Contains(api, v) {
			t.Errorf("api service should require %q from the host environment", v)
		}
	}
}

func TestDockerComposeWorkerService(t *testing.T) {
	content := readRootFile(t, "docker-compose.yml")
	worker := composeServiceBlock(t, content, "worker")

	if !strings.Contains(worker, `command: ["worker"]`) {
		t.Error("worker service should start with the worker subcommand")
	}
	if !strings.Contains(worker, "NEWS_FEED_URLS") {
		t.Error("worker service should receive NEWS_FEED_URLS for the news fetcher")
	}
	if !strings.Contains(worker, "external") {
		t.Error("worker service needs the external network for feed egress")
	}
}

func TestDockerComposeDBService(t *testing.T) {
	content := readRootFile(t, "docker-compose.yml")
	db := composeServiceBlock(t, content, "db")

	if !strings.Contains(db, "postgres:") {
		t.Error("db service should use a PostgreSQL image")
	}
	if !strings.Contains(db, "pg_isready") {
		t.Error("db service should health-check with pg_isready")
	}
	// DBは内部ネットワークに閉じ、外部へは一切到達させない
	if strings.Contains(db, "external") {
		t.Error("db service must not join the external network")
	}
}

func TestDockerComposeInternalNetwork(t *testing.T) {
	content := readRootFile(t, "docker-compose.yml")

	// egress制限: DBとAPI間の通信は内部ネットワークに閉じる
	if !strings.Contains(content, "internal: true") {
		t.Error("docker-compose.yml should define an internal network (internal: true) for egress restriction")
	}
}
