package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"liyu1981.xyz/device-health-service/pkg/auth"
	"liyu1981.xyz/device-health-service/pkg/common"
	dhGrpc "liyu1981.xyz/device-health-service/pkg/grpc"
	"liyu1981.xyz/device-health-service/pkg/health"
	"liyu1981.xyz/device-health-service/pkg/models"
	"liyu1981.xyz/device-health-service/pkg/quiz"
)

var maxCustomers int = 1000
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"
var centroID string = "centro-bench-" + uuid.NewString()[:8]

var grpcClient dhGrpc.DeviceHealthServiceClient

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

// the server must run with the same DH_AUTH_SECRET so enrollment is accepted
func main() {
	secret := os.Getenv(common.EnvPrefix + "_AUTH_SECRET")
	if secret == "" {
		log.Fatal("DH_AUTH_SECRET must be set to the server's auth secret")
	}
	authenticator, err := auth.NewAuthenticator(secret, os.Getenv(common.EnvPrefix+"_AUTH_ISSUER"), time.Hour)
	if err != nil {
		log.Fatal(err)
	}
	token, err := authenticator.Issue(centroID, "benchmark")
	if err != nil {
		log.Fatal(err)
	}

	emails := make([]string, maxCustomers)
	for i := range maxCustomers {
		emails[i] = fmt.Sprintf("bench-%s@example.com", uuid.NewString())
	}
	fmt.Printf("generated %v customer emails for centro %v\n", maxCustomers, centroID)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = dhGrpc.NewDeviceHealthServiceClient(conn)

	fmt.Printf("gRPC client ready\n")

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxCustomers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enroll(token, emails[i])
			fmt.Printf("\renrolled customer %v", i)
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\renrolled %v customers: used time=%v seconds, throughput=%v action/second\n",
		maxCustomers, usedTime.Seconds(), float64(maxCustomers)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxCustomers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doCheckups(emails[i])
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid checkups for %v customers: used time=%v seconds, throughput=%v action/second\n",
		maxCustomers, usedTime.Seconds(), float64(maxCustomers*3)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := math.Pow10(decimal)
	return math.Round(val*multiplier) / multiplier
}

func postJSON(url string, token string, payload any) (*http.Response, error) {
	jsonData, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return http.DefaultClient.Do(req)
}

func enroll(token, email string) {
	resp, err := postJSON(
		fmt.Sprintf("http://%s/v1/centri/%s/customers", httpHostPort, centroID),
		token,
		health.EnrollCustomerRequest{Email: email, Name: "Benchmark"},
	)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		panic(fmt.Sprintf("enroll %s: status %v", email, resp.StatusCode))
	}
}

// callAction sends one action over HTTP or gRPC at random.
func callAction(action string, payload map[string]any) {
	if flipCoin() {
		payload["action"] = action
		resp, err := postJSON(fmt.Sprintf("http://%s/v1/device-health", httpHostPort), "", payload)
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\n%s response status code != 200: %v\n", action, resp.StatusCode)
		}
		return
	}

	in, err := dhGrpc.EncodeStruct(payload)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	switch action {
	case "log_health":
		_, err = grpcClient.LogHealth(ctx, in)
	case "submit_quiz":
		_, err = grpcClient.SubmitQuiz(ctx, in)
	case "get_health_history":
		_, err = grpcClient.GetHealthHistory(ctx, in)
	}
	if err != nil {
		fmt.Printf("\n%s error: %v\n", action, err)
	}
}

func doCheckups(email string) {
	actions := []func(){
		genLogHealthAction(email),
		genSubmitQuizAction(email),
		genHistoryAction(email),
	}
	actionNames := []string{
		"LogHealth",
		"SubmitQuiz",
		"GetHealthHistory",
	}
	rndMu.Lock()
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	rndMu.Unlock()
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for customer %v", actionNames[index], email)
		rndMu.Lock()
		pause := time.Duration(100+rnd.Int31n(1000)) * time.Millisecond
		rndMu.Unlock()
		time.Sleep(pause)
	}
}

func genLogHealthAction(email string) func() {
	return func() {
		total := 128.0
		callAction("log_health", map[string]any{
			"customer_email":   email,
			"centro_id":        centroID,
			"source":           string(models.SourceAndroidNative),
			"battery_level":    rndFloat64(0.0, 100.0, 1),
			"storage_total_gb": total,
			"storage_used_gb":  rndFloat64(0.0, total, 2),
			"ram_total_mb":     8192.0,
			"ram_available_mb": rndFloat64(0.0, 8192.0, 0),
		})
	}
}

func genSubmitQuizAction(email string) func() {
	return func() {
		callAction("submit_quiz", map[string]any{
			"customer_email": email,
			"centro_id":      centroID,
			"responses": map[string]any{
				quiz.KeyBatteryDrainsFast: flipCoin(),
				quiz.KeyOverheating:       flipCoin(),
				quiz.KeyPerformanceRating: rndFloat64(1, 5, 0),
			},
		})
	}
}

func genHistoryAction(email string) func() {
	return func() {
		callAction("get_health_history", map[string]any{
			"customer_email": email,
			"centro_id":      centroID,
			"limit":          10,
		})
	}
}
