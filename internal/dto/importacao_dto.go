package dto

// JobEnfileiradoResponse is returned by the upload endpoints: the work runs in
// the background and the client polls the job endpoint.
type JobEnfileiradoResponse struct {
	JobID string `json:"job_id"`
}

// JobStatusResponse mirrors the progress hash the workers keep in Redis.
// Estado: pendente | executando | concluido | vazio | falhou | cota_excedida.
type JobStatusResponse struct {
	JobID     string `json:"job_id"`
	Estado    string `json:"estado"`
	Fase      string `json:"fase,omitempty"`
	Salvos    int    `json:"salvos"`
	Total     int    `json:"total"`
	Erro      string `json:"erro,omitempty"`
	Relatorio string `json:"relatorio,omitempty"`
}
