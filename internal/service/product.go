package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Product describes one satellite precipitation dataset the analysis
// backend can compute over.
type Product struct {
	Name string `yaml:"name" json:"name"`
	// Dataset is the Earth Engine image collection ID.
	Dataset string `yaml:"dataset" json:"dataset"`
	// Band is the collection band to select; empty means the default band.
	Band string `yaml:"band,omitempty" json:"band,omitempty"`
	// Scale is the reduction scale in meters.
	Scale int `yaml:"scale" json:"scale"`
	// Multiply converts the band's native unit to mm per timestep. Rate
	// products (CFSV2, GLDAS) carry the seconds-per-sample factor here.
	Multiply float64 `yaml:"multiply" json:"multiply"`
}

// defaultProducts is the built-in catalog. A products.yaml in the data
// directory replaces it wholesale.
var defaultProducts = []Product{
	{Name: "CHIRPS", Dataset: "UCSB-CHG/CHIRPS/DAILY", Scale: 1000, Multiply: 1},
	{Name: "PERSIANN", Dataset: "NOAA/PERSIANN-CDR", Scale: 5000, Multiply: 1},
	{Name: "TRMM", Dataset: "TRMM/3B42", Band: "precipitation", Scale: 30000, Multiply: 3},
	{Name: "CFSV2", Dataset: "NOAA/CFSV2/FOR6H", Band: "Precipitation_rate_surface_6_Hour_Average", Scale: 30000, Multiply: 6 * 60 * 60},
	{Name: "GLDAS", Dataset: "NASA/GLDAS/V021/NOAH/G025/T3H", Band: "Rainf_tavg", Scale: 30000, Multiply: 3 * 60 * 60},
}

var (
	timesteps  = []string{"day", "month", "year"}
	statistics = []string{"sum", "mean", "min", "max"}
)

// ProductService holds the product catalog and the fixed timestep and
// statistic option lists.
type ProductService struct {
	mu       sync.RWMutex
	products []Product
	byName   map[string]Product
}

// NewProductService creates the service with the built-in catalog, replaced
// by dataDir/products.yaml when that file exists and parses.
func NewProductService(dataDir string) *ProductService {
	s := &ProductService{}
	s.set(defaultProducts)

	data, err := os.ReadFile(filepath.Join(dataDir, "products.yaml"))
	if err != nil {
		return s
	}
	var override struct {
		Products []Product `yaml:"products"`
	}
	if err := yaml.Unmarshal(data, &override); err != nil || len(override.Products) == 0 {
		return s
	}
	s.set(override.Products)
	return s
}

func (s *ProductService) set(products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.byName = make(map[string]Product, len(products))
	for _, p := range products {
		s.byName[p.Name] = p
	}
}

// List returns the catalog in display order.
func (s *ProductService) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get returns a product by name.
func (s *ProductService) Get(name string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byName[name]
	return p, ok
}

// Names returns the product names in display order.
func (s *ProductService) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.products))
	for i, p := range s.products {
		out[i] = p.Name
	}
	return out
}

// ValidateSelection checks that every submitted option value is one the
// catalog actually offers, so unknown values never reach the backend.
func (s *ProductService) ValidateSelection(products []string, timestep, statistic string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, name := range products {
		if _, ok := s.byName[name]; !ok {
			return fmt.Errorf("unknown product %q", name)
		}
	}
	if timestep != "" && !contains(timesteps, timestep) {
		return fmt.Errorf("unknown timestep %q", timestep)
	}
	if statistic != "" && !contains(statistics, statistic) {
		return fmt.Errorf("unknown statistic %q", statistic)
	}
	return nil
}

// Timesteps returns the aggregation periods a graph can be bucketed by.
func (s *ProductService) Timesteps() []string { return append([]string(nil), timesteps...) }

// Statistics returns the reduction methods.
func (s *ProductService) Statistics() []string { return append([]string(nil), statistics...) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
