package sslmodel

//HostReportSorter sorts host reports by host name
type HostReportSorter []HostReport

func (k HostReportSorter) Len() int {
	return len(k)
}

func (k HostReportSorter) Swap(i, j int) {
	k[i], k[j] = k[j], k[i]
}
func (k HostReportSorter) Less(i, j int) bool {
	return k[i].Host < k[j].Host
}

//GradeDistribution counts the hosts per grade
func GradeDistribution(reports []HostReport) map[string]int {
	dist := make(map[string]int)
	for _, r := range reports {
		dist[r.Grade]++
	}
	return dist
}
