package storage

import "testing"

func TestParseCacheConnection(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    cacheEndpoint
		wantErr bool
	}{
		{
			name: "redis url",
			in:   "redis://localhost:6379/1",
			want: cacheEndpoint{URL: "redis://localhost:6379/1"},
		},
		{
			name: "tls url",
			in:   "rediss://:secret@cache.example.com:6380",
			want: cacheEndpoint{URL: "rediss://:secret@cache.example.com:6380"},
		},
		{
			name: "connection string",
			in:   "oilprices.redis.cache.windows.net:6380,password=s3cr3t=,ssl=True,abortConnect=False",
			want: cacheEndpoint{Address: "oilprices.redis.cache.windows.net:6380", Password: "s3cr3t=", TLS: true},
		},
		{
			name: "default port",
			in:   "localhost",
			want: cacheEndpoint{Address: "localhost:6379"},
		},
		{
			name: "default tls port",
			in:   "cache.local,ssl=true,defaultDatabase=3",
			want: cacheEndpoint{Address: "cache.local:6380", TLS: true, Database: 3},
		},
		{
			name:    "empty",
			in:      "  ",
			wantErr: true,
		},
		{
			name:    "options only",
			in:      "password=x",
			wantErr: true,
		},
		{
			name:    "bad ssl",
			in:      "localhost,ssl=maybe",
			wantErr: true,
		},
		{
			name:    "multiple endpoints",
			in:      "a:6379,b:6379",
			wantErr: true,
		},
	}

	for _, tst := range tests {
		t.Run(tst.name, func(t *testing.T) {
			got, err := parseCacheConnection(tst.in)
			if tst.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tst.want {
				t.Errorf("got %+v, want %+v", got, tst.want)
			}
		})
	}
}
