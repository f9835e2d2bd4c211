package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/picking-salida/pkg/config"
)

const lookupTimeout = 5 * time.Second

// NewPool crea el pool de conexiones a PostgreSQL para los datos de sesión y hace ping.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := poolConfigFor(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// poolConfigFor arma la configuración del pool. Con ForceIPv4 el host del DSN se reemplaza
// por su IPv4 cuando se puede resolver y el dial usa tcp4.
func poolConfigFor(ctx context.Context, cfg config.DBConfig) (*pgxpool.Config, error) {
	r := ipv4Resolver{fallbackDNS: cfg.FallbackDNS}

	dsn := cfg.ConnectionString()
	if cfg.ForceIPv4 {
		dsn = r.rewriteURL(ctx, dsn)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	if cfg.ForceIPv4 {
		poolConfig.ConnConfig.DialFunc = r.dial
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	return poolConfig, nil
}

// ipv4Resolver resuelve hosts a IPv4 con el resolver del sistema y, si está configurado,
// con uno alternativo (contenedores cuyo DNS solo devuelve AAAA).
type ipv4Resolver struct {
	fallbackDNS string
}

// dial fuerza tcp4 cuando el host tiene IPv4; si no, hace el dial normal.
func (r ipv4Resolver) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	dialer := &net.Dialer{}
	ipv4, err := r.resolve(ctx, host)
	if err != nil {
		return dialer.DialContext(ctx, network, addr)
	}
	return dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ipv4, port))
}

func (r ipv4Resolver) resolve(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return host, nil
		}
		return "", fmt.Errorf("%s es IPv6", host)
	}
	ip, err := lookupIPv4(ctx, net.DefaultResolver, host)
	if err == nil || r.fallbackDNS == "" {
		return ip, err
	}
	alt := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, r.fallbackDNS)
		},
	}
	return lookupIPv4(ctx, alt, host)
}

func lookupIPv4(ctx context.Context, res *net.Resolver, host string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()
	ips, err := res.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			return ip.String(), nil
		}
	}
	return "", fmt.Errorf("%s sin IPv4", host)
}

// rewriteURL reemplaza el host del DSN por su IPv4. Si no se puede resolver lo deja igual.
func (r ipv4Resolver) rewriteURL(ctx context.Context, dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return dsn
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	ipv4, err := r.resolve(ctx, u.Hostname())
	if err != nil {
		return dsn
	}
	u.Host = net.JoinHostPort(ipv4, port)
	return u.String()
}
